// drivesend/internal/core/domain/types_test.go
package domain

import "testing"

func TestIsSupportedMedia(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "render.png", want: true},
		{path: "/tmp/out/clip.MP4", want: true},
		{path: "frame.jpeg", want: true},
		{path: "anim.webp", want: true},
		{path: "notes.txt", want: false},
		{path: "render.png.enc", want: false},
		{path: "no_extension", want: false},
	}

	for _, tt := range tests {
		if got := IsSupportedMedia(tt.path); got != tt.want {
			t.Errorf("IsSupportedMedia(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsEncryptedArtifact(t *testing.T) {
	if !IsEncryptedArtifact("render.png.enc") {
		t.Error("render.png.enc not recognised as artifact")
	}
	if IsEncryptedArtifact("render.png") {
		t.Error("plain media misclassified as artifact")
	}
}

func TestMimeType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "a.png", want: "image/png"},
		{path: "a.jpg", want: "image/jpeg"},
		{path: "a.mov", want: "video/quicktime"},
		{path: "a.png.enc", want: "application/octet-stream"},
		{path: "a.unknown", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := MimeType(tt.path); got != tt.want {
			t.Errorf("MimeType(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
