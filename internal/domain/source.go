package domain

// Source is a citation the upstream search attached to its answer.
type Source struct {
	URI    string
	Title  string
	Domain string
}
