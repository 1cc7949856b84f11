package out

import (
	"context"

	"github.com/simp-lee/epub"

	"shiori/internal/modules/direction/domain"
	directionout "shiori/internal/modules/direction/port/out"
	"shiori/internal/platform/epubmeta"
)

// EPUBMetadataSource reads primary-writing-mode and the spine
// page-progression-direction straight from the package document.
type EPUBMetadataSource struct{}

func NewEPUBMetadataSource() directionout.MetadataSource {
	return EPUBMetadataSource{}
}

func (EPUBMetadataSource) Candidates(_ context.Context, locator string) ([]domain.Signal, error) {
	book, err := epub.Open(locator)
	if err != nil {
		return nil, err
	}
	defer book.Close()
	dirs, err := epubmeta.PackageDirections(book)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Signal, 0, 2)
	if dir, ok := domain.ParseDirection(epubmeta.WritingModeDirection(dirs.WritingMode)); ok {
		out = append(out, domain.Signal{Direction: dir, Source: domain.SourceMetadata})
	}
	if dir, ok := domain.ParseDirection(dirs.Spine); ok {
		out = append(out, domain.Signal{Direction: dir, Source: domain.SourceSpine})
	}
	return out, nil
}
