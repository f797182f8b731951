package offline

import (
	"errors"
	"testing"
)

// TestDefaultPage tests that the built-in offline page is self-contained.
func TestDefaultPage(t *testing.T) {
	t.Parallel()

	page := DefaultPage()
	if err := ValidateSelfContained(page); err != nil {
		t.Fatalf("built-in page rejected: %v", err)
	}

	page[0] = 'X'
	if DefaultPage()[0] == 'X' {
		t.Error("DefaultPage should return a copy")
	}
}

// TestValidateSelfContained tests external resource detection.
func TestValidateSelfContained(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    string
		wantErr error
	}{
		{
			name: "inline styles and relative icons pass",
			page: `<html><head><style>body{}</style><link rel="icon" href="/icon-192.png"></head><body></body></html>`,
		},
		{
			name: "data uri image passes",
			page: `<img src="data:image/png;base64,iVBORw0KGgo=">`,
		},
		{
			name: "links to other sites are navigation, not resources",
			page: `<a href="https://example.com">site</a>`,
		},
		{
			name:    "external stylesheet",
			page:    `<link rel="stylesheet" href="https://cdn.example.com/a.css">`,
			wantErr: ErrExternalResource,
		},
		{
			name:    "protocol relative script",
			page:    `<script src="//cdn.example.com/a.js"></script>`,
			wantErr: ErrExternalResource,
		},
		{
			name:    "external srcset candidate",
			page:    `<img src="/a.png" srcset="/a.png 1x, http://cdn.example.com/a@2x.png 2x">`,
			wantErr: ErrExternalResource,
		},
		{
			name:    "empty page",
			page:    "  \n",
			wantErr: ErrEmptyPage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateSelfContained([]byte(tt.page))
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
