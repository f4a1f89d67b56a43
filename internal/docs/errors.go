package docs

import "errors"

var (
	// ErrNotFound means the document does not exist at its URL.
	ErrNotFound = errors.New("document not found")
	// ErrFetch covers transport failures and unexpected HTTP statuses.
	ErrFetch = errors.New("fetching document")
	// ErrConvert means the Markdown could not be converted to HTML.
	ErrConvert = errors.New("converting document")
	// ErrDraft marks a document whose front matter sets draft: true.
	ErrDraft = errors.New("document is a draft")
	// ErrInvalidURL rejects absolute URLs, queries and paths escaping the docs root.
	ErrInvalidURL = errors.New("invalid document url")
)
