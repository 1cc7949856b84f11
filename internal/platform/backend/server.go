package backend

import (
	"context"
	"strings"

	"shiori/internal/platform/epubmeta"
)

const Version = "1.0.0"

// Server answers backend calls from the EPUB files on local disk.
type Server struct{}

func NewServer() *Server {
	return &Server{}
}

func (s *Server) GetInfo(_ context.Context, _ *Empty) (*Info, error) {
	return &Info{Name: PluginMapKey, Version: Version}, nil
}

func (s *Server) DetectDirection(_ context.Context, in *DetectDirectionRequest) (*DetectDirectionResponse, error) {
	dir, err := epubmeta.Detect(strings.TrimSpace(in.Path))
	if err != nil {
		if epubmeta.IsUnknown(err) {
			return &DetectDirectionResponse{}, nil
		}
		return nil, err
	}
	return &DetectDirectionResponse{Direction: dir}, nil
}

func (s *Server) ScanBooks(_ context.Context, in *ScanBooksRequest) (*ScanBooksResponse, error) {
	infos := epubmeta.Scan(in.Paths)
	books := make([]BookRecord, 0, len(infos))
	for _, info := range infos {
		books = append(books, RecordFromInfo(info))
	}
	return &ScanBooksResponse{Books: books}, nil
}
