package inventory

import (
	"testing"
	"time"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"under one token", "abc", 0},
		{"exact", "abcd", 1},
		{"truncates", "abcdefg", 1},
		{"longer", "this is a longer piece of content!", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.content); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.content, got, tt.want)
			}
		})
	}
}

func TestRoleOf(t *testing.T) {
	tests := []struct {
		path string
		want Role
	}{
		{"shop/models.py", RoleModel},
		{"shop/views.py", RoleView},
		{"shop/templates/shop/detail.html", RoleTemplate},
		{"shop/forms.py", RoleForm},
		{"config/urls.py", RoleURL},
		{"assets/app.js", RoleStatic},
		{"assets/site.css", RoleStatic},
		{"shop/serializers.py", RoleOther},
		{"manage.py", RoleOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := RoleOf(FileRecord{Path: tt.path})
			if got != tt.want {
				t.Errorf("RoleOf(%s) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestRoleChecks(t *testing.T) {
	view := FileRecord{Path: "shop/views.py"}
	if !view.IsView() || view.IsModel() || view.IsTemplate() {
		t.Errorf("shop/views.py classified incorrectly")
	}

	model := FileRecord{Path: "shop/models.py"}
	if !model.IsModel() || model.IsView() {
		t.Errorf("shop/models.py classified incorrectly")
	}

	tmpl := FileRecord{Path: "shop/templates/shop/detail.html"}
	if !tmpl.IsTemplate() || tmpl.IsView() {
		t.Errorf("detail.html classified incorrectly")
	}
}

func TestBareName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"shop/models.py", "models"},
		{"shop/templates/shop/order_list.html", "order_list"},
		{"README", "README"},
		{"a/b/c.tar.gz", "c.tar"},
	}

	for _, tt := range tests {
		got := FileRecord{Path: tt.path}.BareName()
		if got != tt.want {
			t.Errorf("BareName(%s) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCategorize(t *testing.T) {
	now := time.Now()
	files := []FileRecord{
		{Path: "shop/models.py", LastModified: now},
		{Path: "shop/views.py", LastModified: now},
		{Path: "shop/templates/shop/detail.html", LastModified: now},
		{Path: "manage.py", LastModified: now},
	}

	byRole := Categorize(files)

	// Every role key exists even when empty.
	for _, role := range Roles() {
		if _, ok := byRole[role]; !ok {
			t.Errorf("missing role key %s", role)
		}
	}

	if got := len(byRole[RoleModel]); got != 1 {
		t.Errorf("models count = %d, want 1", got)
	}
	if got := len(byRole[RoleOther]); got != 1 {
		t.Errorf("other count = %d, want 1", got)
	}
	if len(byRole[RoleForm]) != 0 {
		t.Errorf("forms should be empty, got %v", byRole[RoleForm])
	}
}
