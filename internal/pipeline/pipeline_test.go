package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/logging"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/moderation"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/storage"
)

type fakeStore struct {
	mu        sync.Mutex
	images    []string
	verdicts  []models.ModerationVerdict
	flagged   bool
	updateErr error
}

func (f *fakeStore) AppendImage(ctx context.Context, ownerID int64, imagePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.images {
		if existing == imagePath {
			return nil
		}
	}
	f.images = append(f.images, imagePath)
	return nil
}

func (f *fakeStore) UpdateModeration(ctx context.Context, ownerID int64, verdict models.ModerationVerdict, flagged bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.verdicts = append(f.verdicts, verdict)
	f.flagged = f.flagged || flagged
	return nil
}

type fakeStorage struct {
	objects map[string][]byte
}

func (f *fakeStorage) Put(ctx context.Context, name string, data []byte) error {
	f.objects[name] = data
	return nil
}

func (f *fakeStorage) Read(ctx context.Context, name string) ([]byte, error) {
	data, ok := f.objects[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (f *fakeStorage) URL(name string) string {
	return "https://cdn.test/" + name
}

func (f *fakeStorage) Delete(ctx context.Context, name string) error {
	delete(f.objects, name)
	return nil
}

func newTestPipeline(store *fakeStore, detector moderation.Detector) (*Pipeline, *fakeStorage) {
	blobs := &fakeStorage{objects: map[string][]byte{
		"reviews/1/photo.jpg": []byte("jpeg bytes"),
	}}
	resolver := func(kind models.OwnerKind) (EntityStore, bool) {
		if kind == models.OwnerReview {
			return store, true
		}
		return nil, false
	}
	p := New(resolver, blobs, detector, moderation.NewPolicy(0.7, 0.7), time.Second, logging.NewDiscard())
	return p, blobs
}

func testJob() Job {
	return Job{OwnerKind: models.OwnerReview, OwnerID: 1, ImagePath: "reviews/1/photo.jpg"}
}

func unsafeVerdict(adult float64) *models.ModerationVerdict {
	v := models.NewModerationVerdict(map[string]float64{
		models.CategoryNormal: 1 - adult,
		models.CategoryAdult:  adult,
	}, "")
	return &v
}

func TestProcessCleanImage(t *testing.T) {
	store := &fakeStore{}
	p, _ := newTestPipeline(store, &moderation.MockDetector{Verdict: unsafeVerdict(0.01)})

	status, err := p.Process(context.Background(), testJob())
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if status != StatusCompleted {
		t.Errorf("status = %q, want completed", status)
	}
	if store.flagged {
		t.Error("clean image must not flag the owner")
	}
	if len(store.images) != 1 || store.images[0] != "reviews/1/photo.jpg" {
		t.Errorf("images = %v, want the uploaded path attached", store.images)
	}
	if len(store.verdicts) != 1 {
		t.Errorf("expected 1 verdict written, got %d", len(store.verdicts))
	}
}

func TestProcessFlagsUnsafeImage(t *testing.T) {
	store := &fakeStore{}
	p, _ := newTestPipeline(store, &moderation.MockDetector{Verdict: unsafeVerdict(0.9)})

	status, err := p.Process(context.Background(), testJob())
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if status != StatusCompleted {
		t.Errorf("status = %q, want completed", status)
	}
	if !store.flagged {
		t.Error("adult 0.9 must flag the owner")
	}
	if len(store.verdicts) != 1 || !strings.Contains(store.verdicts[0].Reason, "adult") {
		t.Errorf("verdicts = %+v, want reason mentioning adult", store.verdicts)
	}
}

func TestProcessThresholdBoundary(t *testing.T) {
	for _, tc := range []struct {
		adult    float64
		wantFlag bool
	}{
		{0.70, false},
		{0.71, true},
	} {
		store := &fakeStore{}
		p, _ := newTestPipeline(store, &moderation.MockDetector{Verdict: unsafeVerdict(tc.adult)})

		if _, err := p.Process(context.Background(), testJob()); err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if store.flagged != tc.wantFlag {
			t.Errorf("adult %.2f flagged = %v, want %v (threshold is strict)", tc.adult, store.flagged, tc.wantFlag)
		}
	}
}

func TestProcessFailsOpenOnDetectorError(t *testing.T) {
	store := &fakeStore{}
	p, _ := newTestPipeline(store, &moderation.MockDetector{Err: errors.New("vendor down")})

	status, err := p.Process(context.Background(), testJob())
	if err != nil {
		t.Fatalf("Process() error = %v, fail-open must not surface the vendor error", err)
	}
	if status != StatusCompleted {
		t.Errorf("status = %q, want completed", status)
	}
	if store.flagged {
		t.Error("fail-open must not flag the owner")
	}
	if len(store.verdicts) != 0 {
		t.Errorf("fail-open must not write a verdict, got %d", len(store.verdicts))
	}
	if len(store.images) != 1 {
		t.Error("image should stay attached when moderation is unavailable")
	}
}

func TestProcessIdempotentReprocessing(t *testing.T) {
	store := &fakeStore{}
	detector := &moderation.MockDetector{Verdict: unsafeVerdict(0.9)}
	p, _ := newTestPipeline(store, detector)

	for i := 0; i < 3; i++ {
		if _, err := p.Process(context.Background(), testJob()); err != nil {
			t.Fatalf("Process() run %d error = %v", i, err)
		}
	}

	if len(store.images) != 1 {
		t.Errorf("images = %v, re-runs must not duplicate the path", store.images)
	}
	if !store.flagged {
		t.Error("owner must stay flagged across re-runs")
	}

	// A later clean verdict must not unflag.
	detector.Verdict = unsafeVerdict(0.01)
	if _, err := p.Process(context.Background(), testJob()); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !store.flagged {
		t.Error("flag is monotonic, a clean re-run must not clear it")
	}
}

func TestProcessUnknownOwnerKindFails(t *testing.T) {
	store := &fakeStore{}
	p, _ := newTestPipeline(store, &moderation.MockDetector{})

	job := Job{OwnerKind: models.OwnerKind("post"), OwnerID: 1, ImagePath: "reviews/1/photo.jpg"}
	status, err := p.Process(context.Background(), job)
	if err == nil {
		t.Fatal("expected error for unknown owner kind")
	}
	if status != StatusFailed {
		t.Errorf("status = %q, want failed", status)
	}
}

func TestProcessMissingImageFails(t *testing.T) {
	store := &fakeStore{}
	p, _ := newTestPipeline(store, &moderation.MockDetector{})

	job := Job{OwnerKind: models.OwnerReview, OwnerID: 1, ImagePath: "reviews/1/missing.jpg"}
	status, err := p.Process(context.Background(), job)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want storage.ErrNotFound", err)
	}
	if status != StatusFailed {
		t.Errorf("status = %q, want failed", status)
	}
}

func TestProcessPersistErrorFails(t *testing.T) {
	store := &fakeStore{updateErr: errors.New("connection reset")}
	p, _ := newTestPipeline(store, &moderation.MockDetector{Verdict: unsafeVerdict(0.9)})

	status, err := p.Process(context.Background(), testJob())
	if err == nil {
		t.Fatal("expected error when the verdict cannot be persisted")
	}
	if status != StatusFailed {
		t.Errorf("status = %q, want failed", status)
	}
}
