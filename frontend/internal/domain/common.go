package frontend_domain

// CommonTemplateData holds fields that are common to all page templates.
// Available in templates as .Common via the TemplateData wrapper.
type CommonTemplateData struct {
	Error           string
	Success         string
	Viewer          *Viewer // nil when logged out
	Validation      ValidationData
	CSRFToken       string // CSRF token for form submissions
	UsernamePrefill string // Pre-filled username for auth forms (from flash, not URL)
	Path            string // current path, used to highlight the nav
}

// Viewer is the logged in user.
type Viewer struct {
	Username string
}

// ValidationData holds all validation constants needed by templates.
// Client-side checks in the page script read the same values.
type ValidationData struct {
	CaptionMaxLen     int
	BioMaxLen         int
	DisplayNameMaxLen int
	PasswordMinLen    int
	UsernameMaxLen    int

	PostMaxSizeBytes           int64
	PostMaxSizeLabel           string
	ProfilePictureMaxSizeBytes int64
	ProfilePictureMaxSizeLabel string
	AcceptImageTypes           string
}
