// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sort"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Picture is one embedded image.
type Picture struct {
	// Page is the 1-based page the picture was found on (0 if unknown).
	Page int

	// Object is the PDF object number of the image stream (0 if unknown).
	Object int

	Name string

	// Format is the encoded payload's type as reported by the source
	// (e.g. "png", "jpg", "tif").
	Format string

	Data []byte
}

// Image decodes the picture into a raster image. It returns (nil, nil)
// when the picture carries no data. PNG, JPEG, TIFF and BMP payloads are
// supported.
func (p Picture) Image() (image.Image, error) {
	if len(p.Data) == 0 {
		return nil, nil
	}
	img, _, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s picture %s: %w", p.Format, p.label(), err)
	}
	return img, nil
}

func (p Picture) label() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("p%d/obj%d", p.Page, p.Object)
}

// PictureKind tags which container form a PictureSet holds.
type PictureKind int

const (
	// PicturesNone holds no pictures.
	PicturesNone PictureKind = iota
	// PicturesKeyed holds pictures keyed by page and object number.
	PicturesKeyed
	// PicturesList holds pictures in an explicit order.
	PicturesList
)

func (k PictureKind) String() string {
	switch k {
	case PicturesKeyed:
		return "keyed"
	case PicturesList:
		return "list"
	default:
		return "none"
	}
}

// PictureKey locates a picture within a PDF.
type PictureKey struct {
	Page   int
	Object int
}

// PictureSet is the collection of pictures produced by a PictureSource.
// Sources that find images per page build a keyed set; sources with an
// inherent order build a list. The zero value is an empty set.
type PictureSet struct {
	Kind  PictureKind
	Keyed map[PictureKey]Picture
	List  []Picture
}

// KeyedPictures builds a keyed set.
func KeyedPictures(m map[PictureKey]Picture) PictureSet {
	return PictureSet{Kind: PicturesKeyed, Keyed: m}
}

// ListPictures builds an ordered set.
func ListPictures(pics []Picture) PictureSet {
	return PictureSet{Kind: PicturesList, List: pics}
}

// Normalize returns the pictures in iteration order: keyed sets by page
// then object number, lists as given, anything else as an empty slice.
func (s PictureSet) Normalize() []Picture {
	switch s.Kind {
	case PicturesKeyed:
		keys := make([]PictureKey, 0, len(s.Keyed))
		for k := range s.Keyed {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Page != keys[j].Page {
				return keys[i].Page < keys[j].Page
			}
			return keys[i].Object < keys[j].Object
		})
		pics := make([]Picture, len(keys))
		for i, k := range keys {
			pics[i] = s.Keyed[k]
		}
		return pics
	case PicturesList:
		return s.List
	default:
		return []Picture{}
	}
}

// Len returns the number of pictures in the set.
func (s PictureSet) Len() int {
	switch s.Kind {
	case PicturesKeyed:
		return len(s.Keyed)
	case PicturesList:
		return len(s.List)
	default:
		return 0
	}
}
