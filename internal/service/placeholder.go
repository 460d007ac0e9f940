package service

import (
	"encoding/base64"
	"sync"

	"github.com/tenvelde/receptenapi/internal/catalog"
)

// placeholderJPEG is a minimal neutral JPEG served when a recipe has no
// stored image.
const placeholderJPEG = "/9j/4AAQSkZJRgABAQAAAQABAAD/2wBDAP//////////////////////////////////" +
	"///////////////////////////////////////////////////////AAAsIAAEAAQEBEQD/xAAf" +
	"AAABBQEBAQEBAQAAAAAAAAAAAQIDBAUGBwgJCgv/xAC1EAACAQMDAgQDBQUEBAAAAX0BAgMABBEF" +
	"EiExQQYTUWEHInEUMoGRoQgjQrHBFVLR8CQzYnKCCQoWFxgZGiUmJygpKjQ1Njc4OTpDREVGR0hJ" +
	"SlNUVVZXWFlaY2RlZmdoaWpzdHV2d3h5eoOEhYaHiImKkpOUlZaXmJmaoqOkpaanqKmqsrO0tba3" +
	"uLm6wsPExcbHyMnK0tPU1dbX2Nna4eLj5OXm5+jp6vHy8/T19vf4+fr/2gAIAQEAAD8A+/r/2Q=="

var (
	placeholderOnce  sync.Once
	placeholderBytes []byte
)

func placeholderImage(recipeID string) catalog.RecipeImage {
	placeholderOnce.Do(func() {
		decoded, err := base64.StdEncoding.DecodeString(placeholderJPEG)
		if err != nil {
			// The constant is fixed at build time; a decode failure is
			// a programming error.
			panic(err)
		}
		placeholderBytes = decoded
	})
	return catalog.RecipeImage{
		RecipeID:    recipeID,
		ContentType: "image/jpeg",
		Data:        placeholderBytes,
	}
}
