package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"scan.pdf", "scan.pdf"},
		{"Faktúra č. 12.pdf", "Faktura_c._12.pdf"},
		{"Okná  a   dvere.jpg", "Okna_a_dvere.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\jan\foto.png`, "foto.png"},
		{"ŽLTÁ_ľalia.JPG", "ZLTA_lalia.JPG"},
		{"rez#1?(final).dwg", "rez1final.dwg"},
		{".hidden", "hidden"},
		{"日本語", "subor"},
		{"", "subor"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileName(tt.in))
		})
	}
}

func TestObjectPath(t *testing.T) {
	at := time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	got := ObjectPath("user-1", "spis-9", "photos", at, "3f2b8c1e-77aa-4d0e-9b1a-5c6d7e8f9a0b", "Fotka zo stavby.jpg")
	assert.Equal(t, "user-1/spis-9/photos/1710408600000_3f2b8c1e77aa_Fotka_zo_stavby.jpg", got)
}

func TestObjectPath_SegmentsCannotEscape(t *testing.T) {
	at := time.UnixMilli(1)
	got := ObjectPath("../u", "r/1", "", at, "../id", "a.pdf")
	assert.Equal(t, "_u/r_1/_/1_id_a.pdf", got)
}

func TestObjectPath_DistinctItemsSameInstant(t *testing.T) {
	at := time.UnixMilli(1710408600000)
	a := ObjectPath("u", "r", "documents", at, "0b7c2d4e-1111-4000-8000-000000000001", "foto 1.pdf")
	b := ObjectPath("u", "r", "documents", at, "9e1f3a5b-2222-4000-8000-000000000002", "foto_1.pdf")
	assert.NotEqual(t, a, b)

	tests := []struct {
		id   string
		want string
	}{
		{"", "x"},
		{"id-7", "id7"},
		{"ABCDEF012345-6789", "ABCDEF012345"},
		{"ž/ä-1", "1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, itemKey(tt.id), tt.id)
	}
}
