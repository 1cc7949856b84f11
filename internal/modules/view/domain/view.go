package domain

type View string

const (
	Library View = "library"
	Reader  View = "reader"
)

func (v View) Valid() bool {
	return v == Library || v == Reader
}
