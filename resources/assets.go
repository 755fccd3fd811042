package resources

import (
	"embed"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
)

const iconDir = "icons/"

//go:embed icons/*.svg
var iconFS embed.FS

var iconCache sync.Map

// Icon returns a Fyne resource for the given SVG icon file.
func Icon(fileName string) (fyne.Resource, error) {
	path := iconDir + fileName
	if cached, ok := iconCache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := iconFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load icon %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(fileName, data)
	iconCache.Store(path, resource)
	return resource, nil
}

// MustIcon returns a Fyne resource or panics on error.
func MustIcon(fileName string) fyne.Resource {
	resource, err := Icon(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

// Logo is the application icon.
func Logo() fyne.Resource {
	return MustIcon("logo.svg")
}

// TomatoActive marks a finished work cycle in the progress indicator.
func TomatoActive() fyne.Resource {
	return MustIcon("tomato_active.svg")
}

// TomatoInactive marks a pending slot in the progress indicator.
func TomatoInactive() fyne.Resource {
	return MustIcon("tomato_inactive.svg")
}
