package dto

type AddFolderInput struct {
	Path string
}

type FolderOutput struct {
	Path    string
	AddedAt string
}

type BookOutput struct {
	Path      string
	Title     string
	Author    string
	Language  string
	Direction string
	HasCover  bool
}

type BookDetailOutput struct {
	Path      string
	Title     string
	Author    string
	Language  string
	Direction string
	CoverURL  string
	IndexedAt string
}

type ScanOutput struct {
	Folders int
	Books   []BookOutput
}
