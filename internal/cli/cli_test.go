package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rag-tutor/internal/domain"
	"rag-tutor/internal/dto"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIngest struct {
	requests []dto.IngestRequest
	err      error
}

func (f *fakeIngest) Ingest(_ context.Context, req dto.IngestRequest) (*dto.IngestResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &dto.IngestResponse{InsertedCount: 2, ChunkCount: 3, Errors: []dto.ChunkError{{ChunkIndex: 1, Message: "embedding failed"}}}, nil
}

type fakeRetrieval struct {
	topics []domain.Topic
	last   dto.TopicsRequest
}

func (f *fakeRetrieval) Retrieve(context.Context, dto.RetrieveRequest) (*dto.RetrieveResponse, error) {
	return &dto.RetrieveResponse{}, nil
}

func (f *fakeRetrieval) RetrieveTopics(_ context.Context, req dto.TopicsRequest) (*dto.TopicsResponse, error) {
	f.last = req
	return &dto.TopicsResponse{Topics: f.topics}, nil
}

func (f *fakeRetrieval) InvalidateTopics(context.Context, string, int) {}

func setupTestServices(t *testing.T) (*fakeIngest, *fakeRetrieval) {
	t.Helper()
	ing := &fakeIngest{}
	ret := &fakeRetrieval{}
	SetServices(ing, ret)

	// Flag values and their Changed marks survive between Execute calls.
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	watchSubject, watchYear = "BM", 3

	t.Cleanup(func() {
		SetServices(nil, nil)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})
	return ing, ret
}

func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestIngestCmd_Stdin(t *testing.T) {
	ing, _ := setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("Kucing ialah haiwan peliharaan."))

	out, err := execute("ingest", "--subject", "BM", "--year", "2", "--source", "Unit 1 Haiwan")
	require.NoError(t, err)

	require.Len(t, ing.requests, 1)
	req := ing.requests[0]
	assert.Equal(t, "BM", req.Subject)
	assert.Equal(t, 2, req.Year)
	assert.Equal(t, "Unit 1 Haiwan", req.Source)
	assert.Nil(t, req.File)
	assert.Contains(t, out, "stored 2 of 3 chunks")
	assert.Contains(t, out, "chunk 1: embedding failed")
}

func TestIngestCmd_StdinRequiresSource(t *testing.T) {
	setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("some text here"))

	_, err := execute("ingest", "--subject", "BM", "--year", "2")
	assert.ErrorContains(t, err, "--source is required")
}

func TestIngestCmd_FileDerivesSource(t *testing.T) {
	ing, _ := setupTestServices(t)
	path := filepath.Join(t.TempDir(), "Unit 4 Tumbuhan.txt")
	require.NoError(t, os.WriteFile(path, []byte("Pokok memerlukan air dan cahaya."), 0o600))

	_, err := execute("ingest", "--file", path, "--subject", "Sains", "--year", "4")
	require.NoError(t, err)

	require.Len(t, ing.requests, 1)
	assert.Equal(t, "Unit 4 Tumbuhan", ing.requests[0].Source)
	require.NotNil(t, ing.requests[0].File)
	assert.Equal(t, "Unit 4 Tumbuhan.txt", ing.requests[0].File.Name)
}

func TestIngestCmd_ServiceError(t *testing.T) {
	ing, _ := setupTestServices(t)
	ing.err = domain.NewUpstreamError("no chunks could be stored", nil)
	rootCmd.SetIn(strings.NewReader("text text text"))

	_, err := execute("ingest", "--subject", "BM", "--year", "1", "--source", "x")
	assert.ErrorContains(t, err, "ingest failed")
}

func TestIngestCmd_RequiresSubject(t *testing.T) {
	setupTestServices(t)

	_, err := execute("ingest", "--year", "1")
	assert.ErrorContains(t, err, "subject")
}

func TestTopicsCmd(t *testing.T) {
	_, ret := setupTestServices(t)
	ret.topics = []domain.Topic{{Key: "unit 1", Label: "Unit 1"}, {Key: "unit 2", Label: "Unit 2"}}

	out, err := execute("topics", "BM", "3")
	require.NoError(t, err)
	assert.Equal(t, dto.TopicsRequest{Subject: "BM", Year: 3}, ret.last)
	assert.Contains(t, out, "Unit 1")
	assert.Contains(t, out, "unit 2")
}

func TestTopicsCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute("topics", "BM", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "No topics found.")
}

func TestTopicsCmd_InvalidYear(t *testing.T) {
	setupTestServices(t)

	_, err := execute("topics", "BM", "three")
	assert.ErrorContains(t, err, "invalid year")
}

func TestEnsureServices_Loader(t *testing.T) {
	SetServices(nil, nil)
	t.Cleanup(func() {
		SetServices(nil, nil)
		Configure(nil, nil)
	})

	Configure(func() error { return errors.New("no database") }, nil)
	assert.ErrorContains(t, ensureServices(), "no database")

	Configure(func() error {
		SetServices(&fakeIngest{}, &fakeRetrieval{})
		return nil
	}, []string{".txt"})
	assert.NoError(t, ensureServices())
}

func TestHandleWatchEvent(t *testing.T) {
	ing, _ := setupTestServices(t)
	dir := t.TempDir()
	cmd := &cobra.Command{}
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	txt := filepath.Join(dir, "Unit 2 Keluarga.txt")
	require.NoError(t, os.WriteFile(txt, []byte("Ibu dan ayah menjaga keluarga."), 0o600))
	pdf := filepath.Join(dir, "scan.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF"), 0o600))
	empty := filepath.Join(dir, "draft.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	folder := filepath.Join(dir, "folder.txt")
	require.NoError(t, os.Mkdir(folder, 0o700))

	tests := []struct {
		name     string
		event    fsnotify.Event
		ingested bool
	}{
		{"create txt", fsnotify.Event{Name: txt, Op: fsnotify.Create}, true},
		{"write txt", fsnotify.Event{Name: txt, Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"remove txt", fsnotify.Event{Name: txt, Op: fsnotify.Remove}, false},
		{"chmod only", fsnotify.Event{Name: txt, Op: fsnotify.Chmod}, false},
		{"unwatched extension", fsnotify.Event{Name: pdf, Op: fsnotify.Create}, false},
		{"empty file", fsnotify.Event{Name: empty, Op: fsnotify.Create}, false},
		{"vanished file", fsnotify.Event{Name: filepath.Join(dir, "gone.txt"), Op: fsnotify.Create}, false},
		{"directory", fsnotify.Event{Name: folder, Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(ing.requests)
			require.NoError(t, handleWatchEvent(context.Background(), cmd, tt.event))
			if tt.ingested {
				require.Len(t, ing.requests, before+1)
				req := ing.requests[len(ing.requests)-1]
				assert.Equal(t, "Unit 2 Keluarga", req.Source)
				assert.Equal(t, "BM", req.Subject)
				assert.Equal(t, 3, req.Year)
			} else {
				assert.Len(t, ing.requests, before)
			}
		})
	}
}

func TestWatchLoop_StopsOnCancel(t *testing.T) {
	setupTestServices(t)
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan fsnotify.Event)
	errs := make(chan error, 1)
	errs <- errors.New("overflow")

	cmd := &cobra.Command{}
	buf := new(bytes.Buffer)
	cmd.SetErr(buf)

	done := make(chan error, 1)
	go func() { done <- watchLoop(ctx, cmd, events, errs) }()
	cancel()

	assert.NoError(t, <-done)
}

func TestWatchedExtension(t *testing.T) {
	watchExtensions = []string{".txt", ".md"}
	assert.True(t, watchedExtension("a/b/Unit 1.TXT"))
	assert.True(t, watchedExtension("notes.md"))
	assert.False(t, watchedExtension("scan.pdf"))
	assert.False(t, watchedExtension("README"))
}
