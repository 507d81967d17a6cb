package validation

import (
	"testing"

	"rag-tutor/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_IngestRequest(t *testing.T) {
	v := NewValidator()

	valid := dto.IngestRequest{Subject: "BM", Year: 3, Source: "Unit 1", Text: "Ali pergi ke sekolah."}
	assert.Nil(t, v.Struct(valid))

	tests := []struct {
		name      string
		mutate    func(r *dto.IngestRequest)
		wantField string
		wantMsg   string
	}{
		{"missing subject", func(r *dto.IngestRequest) { r.Subject = "" }, "subject", "is required"},
		{"year too high", func(r *dto.IngestRequest) { r.Year = 7 }, "year", "must be at most 6"},
		{"year negative", func(r *dto.IngestRequest) { r.Year = -1 }, "year", "must be at least 1"},
		{"missing source", func(r *dto.IngestRequest) { r.Source = "" }, "source", "is required"},
		{"short text after trim", func(r *dto.IngestRequest) { r.Text = "   abc      \n\n   " }, "text", "must contain at least 10 characters"},
		{"file without name", func(r *dto.IngestRequest) { r.File = &dto.FileInfo{MimeType: "text/plain"} }, "name", "is required"},
		{"bad file url", func(r *dto.IngestRequest) { r.File = &dto.FileInfo{Name: "a.txt", URL: "not a url"} }, "url", "has an invalid format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			errs := v.Struct(req)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantField, errs[0].Field)
			assert.Equal(t, tt.wantMsg, errs[0].Message)
		})
	}
}

func TestValidator_GenerateQuizRequest(t *testing.T) {
	v := NewValidator()

	req := dto.GenerateQuizRequest{ChildID: "kid", Subject: "BM", Year: 3, Topic: "Unit 1"}
	assert.Nil(t, v.Struct(req), "optional fields may be empty")

	req.Count = 2
	req.Difficulty = "extreme"
	req.LanguageMode = "FR_ONLY"
	errs := v.Struct(req)
	require.Len(t, errs, 3)
	got := map[string]string{}
	for _, e := range errs {
		got[e.Field] = e.Message
	}
	assert.Equal(t, "must be one of [easy medium hard]", got["difficulty"])
	assert.Equal(t, "must be at least 3", got["count"])
	assert.Equal(t, "must be one of [BM_EN BM_ONLY EN_ONLY]", got["languageMode"])
}

func TestValidator_TopicsRequestUsesQueryNames(t *testing.T) {
	v := NewValidator()
	errs := v.Struct(dto.TopicsRequest{})
	require.Len(t, errs, 2)
	assert.Equal(t, "subject", errs[0].Field)
	assert.Equal(t, "year", errs[1].Field)
}

func TestValidator_ParseIntQuery(t *testing.T) {
	v := NewValidator()

	n, errs := v.ParseIntQuery("limit", "", 30)
	assert.Nil(t, errs)
	assert.Equal(t, 30, n)

	n, errs = v.ParseIntQuery("limit", " 12 ", 30)
	assert.Nil(t, errs)
	assert.Equal(t, 12, n)

	_, errs = v.ParseIntQuery("limit", "ten", 30)
	require.Len(t, errs, 1)
	assert.Equal(t, "limit", errs[0].Field)
}
