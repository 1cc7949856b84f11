package dto

type Candidate struct {
	Direction string
	Source    string
}

type ResolveInput struct {
	Path string
}

type ResolveOutput struct {
	Direction string
	Source    string
}
