package tags

import (
	"github.com/go-flac/flacpicture"
	goflac "github.com/go-flac/go-flac"
)

// readFLACPictures loads every picture block in file order, replacing
// whatever single image an earlier pass found. TagLib's map API only
// surfaces text tags, so pictures always come from the block list.
func readFLACPictures(path string, t *Tag) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return
	}

	var pics []Picture
	for _, meta := range f.Meta {
		if meta.Type != goflac.Picture {
			continue
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*meta)
		if err != nil || len(pic.ImageData) == 0 {
			continue
		}
		pics = append(pics, Picture{
			MIME:        pic.MIME,
			Description: pic.Description,
			Data:        pic.ImageData,
		})
	}
	if len(pics) > 0 {
		t.Pictures = pics
	}
}
