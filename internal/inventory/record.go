// Package inventory walks a Django project tree and produces candidate
// file records for selection and reporting.
package inventory

import (
	"path"
	"strings"
	"time"
)

// CharsPerToken is the fixed character-to-token approximation used for
// budget accounting. No real tokenizer is involved.
const CharsPerToken = 4

// FileRecord represents one candidate source file within a single scan.
// Records are immutable after inventory construction.
type FileRecord struct {
	Path          string    `json:"path"` // project-relative, slash-separated
	LastModified  time.Time `json:"lastModified"`
	SizeBytes     int       `json:"sizeBytes"`
	TokenEstimate int       `json:"tokenEstimate"`
	Content       string    `json:"-"`
}

// EstimateTokens returns the token estimate for a content string.
func EstimateTokens(content string) int {
	return len(content) / CharsPerToken
}

// Role classifies a file for the structural summary and correlation policy.
type Role string

const (
	RoleModel    Role = "models"
	RoleView     Role = "views"
	RoleTemplate Role = "templates"
	RoleForm     Role = "forms"
	RoleURL      Role = "urls"
	RoleStatic   Role = "static"
	RoleOther    Role = "other"
)

// Roles lists all roles in summary display order.
func Roles() []Role {
	return []Role{RoleModel, RoleView, RoleTemplate, RoleForm, RoleURL, RoleStatic, RoleOther}
}

// RoleOf classifies a record by filename convention.
func RoleOf(r FileRecord) Role {
	name := path.Base(r.Path)
	switch {
	case strings.HasSuffix(name, "models.py"):
		return RoleModel
	case strings.HasSuffix(name, "views.py"):
		return RoleView
	case strings.HasSuffix(name, ".html"):
		return RoleTemplate
	case strings.HasSuffix(name, "forms.py"):
		return RoleForm
	case strings.HasSuffix(name, "urls.py"):
		return RoleURL
	case strings.HasSuffix(name, ".js"), strings.HasSuffix(name, ".css"):
		return RoleStatic
	default:
		return RoleOther
	}
}

// IsView reports whether the record follows the view-file convention.
// Matches the path-substring check the correlation policy is defined on.
func (r FileRecord) IsView() bool {
	return strings.Contains(r.Path, "views.py")
}

// IsModel reports whether the record follows the model-file convention.
func (r FileRecord) IsModel() bool {
	return strings.Contains(r.Path, "models.py")
}

// IsTemplate reports whether the record is an HTML template.
func (r FileRecord) IsTemplate() bool {
	return strings.HasSuffix(r.Path, ".html")
}

// BareName returns the filename with its extension stripped.
func (r FileRecord) BareName() string {
	name := path.Base(r.Path)
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext)
}

// Categorize groups inventory paths by role for the structural summary.
func Categorize(files []FileRecord) map[Role][]string {
	byRole := make(map[Role][]string, len(Roles()))
	for _, role := range Roles() {
		byRole[role] = []string{}
	}
	for _, f := range files {
		role := RoleOf(f)
		byRole[role] = append(byRole[role], f.Path)
	}
	return byRole
}
