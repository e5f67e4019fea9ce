package utils

import (
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	fileExtension   = regexp.MustCompile(`\.[^/.]+$`)
	titleSeparators = strings.NewReplacer("-", " ", "_", " ")
)

// TitleFromPath derives a display title from an object path:
// "nyc-2025/IMG_001.jpg" becomes "Img 001".
func TitleFromPath(objectPath string) string {
	name := path.Base(objectPath)
	if name == "." || name == "/" {
		return ""
	}
	name = fileExtension.ReplaceAllString(name, "")
	name = titleSeparators.Replace(name)
	return cases.Title(language.Und).String(name)
}
