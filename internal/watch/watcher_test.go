// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, dir string, onChange func(context.Context, []Change) error) *Watcher {
	t.Helper()
	w, err := New(Config{
		Collection: dir,
		MaxDepth:   3,
		Debounce:   50 * time.Millisecond,
		OnChange:   onChange,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return w
}

func run(t *testing.T, w *Watcher) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	// Give the event loop time to start.
	time.Sleep(50 * time.Millisecond)
	return cancel, errCh
}

func stop(t *testing.T, cancel context.CancelFunc, errCh <-chan error) {
	t.Helper()
	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestWatcher_ReportsRecipesAndImages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "soups"), 0o755); err != nil {
		t.Fatal(err)
	}

	got := make(chan []Change, 10)
	w := newTestWatcher(t, dir, func(_ context.Context, changes []Change) error {
		got <- changes
		return nil
	})
	cancel, errCh := run(t, w)
	defer stop(t, cancel, errCh)

	for _, name := range []string{"notes.txt", "soups/Soup.cook", "soups/Soup.1.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	var changes []Change
	deadline := time.After(5 * time.Second)
	for len(changes) < 2 {
		select {
		case c := <-got:
			changes = append(changes, c...)
		case <-deadline:
			t.Fatalf("timed out waiting for changes, got %v", changes)
		}
	}

	kinds := map[string]ChangeKind{}
	for _, c := range changes {
		kinds[c.Path] = c.Kind
	}
	if kinds["soups/Soup.cook"] != ChangeRecipe {
		t.Errorf("Soup.cook change = %v, want recipe (changes %v)", kinds["soups/Soup.cook"], changes)
	}
	if kinds["soups/Soup.1.jpg"] != ChangeImage {
		t.Errorf("Soup.1.jpg change = %v, want image (changes %v)", kinds["soups/Soup.1.jpg"], changes)
	}
	if _, ok := kinds["notes.txt"]; ok {
		t.Error("notes.txt should not be reported")
	}
}

func TestWatcher_Debounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	calls := make(chan []Change, 10)
	w, err := New(Config{
		Collection: dir,
		MaxDepth:   1,
		Debounce:   300 * time.Millisecond,
		OnChange: func(_ context.Context, changes []Change) error {
			calls <- changes
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	cancel, errCh := run(t, w)
	defer stop(t, cancel, errCh)

	for _, name := range []string{"a.cook", "b.cook", "c.cook"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case changes := <-calls:
		if len(changes) != 3 {
			t.Errorf("first callback got %v, want the three recipes together", changes)
		}
		for i := 1; i < len(changes); i++ {
			if changes[i-1].Path > changes[i].Path {
				t.Errorf("changes not sorted: %v", changes)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func TestWatcher_CallbackErrorKeepsRunning(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	calls := make(chan struct{}, 10)
	w := newTestWatcher(t, dir, func(context.Context, []Change) error {
		calls <- struct{}{}
		return errors.New("check failed")
	})
	cancel, errCh := run(t, w)
	defer stop(t, cancel, errCh)

	for i, name := range []string{"a.cook", "b.cook"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for callback %d", i+1)
		}
	}
}

func TestWatcher_RunTwice(t *testing.T) {
	t.Parallel()

	w := newTestWatcher(t, t.TempDir(), nil)
	cancel, errCh := run(t, w)
	defer stop(t, cancel, errCh)

	if err := w.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() error = %v, want ErrAlreadyRunning", err)
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}); err == nil {
		t.Error("New() without a collection should fail")
	}
	if _, err := New(Config{Collection: t.TempDir(), Ignore: []string{"[oops"}}); err == nil {
		t.Error("New() with an invalid ignore pattern should fail")
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	w := newTestWatcher(t, t.TempDir(), nil)
	t.Cleanup(func() { _ = w.fsw.Close() })

	tests := []struct {
		path string
		kind ChangeKind
		ok   bool
	}{
		{"Soup.cook", ChangeRecipe, true},
		{"dinner/Soup.cook", ChangeRecipe, true},
		{"Soup.jpg", ChangeImage, true},
		{"dinner/Soup.0.2.webp", ChangeImage, true},
		{".cooklang/config.toml", ChangeConfig, true},
		{"dinner/.cooklang/config.toml", 0, false},
		{"Soup.JPG", 0, false},
		{"notes.txt", 0, false},
	}
	for _, tt := range tests {
		kind, ok := w.classify(tt.path)
		if ok != tt.ok || kind != tt.kind {
			t.Errorf("classify(%q) = %v, %v; want %v, %v", tt.path, kind, ok, tt.kind, tt.ok)
		}
	}
}

func TestShouldWatchDir(t *testing.T) {
	t.Parallel()

	w := &Watcher{cfg: Config{MaxDepth: 2}, ignores: defaultIgnores}
	tests := map[string]bool{
		".":          true,
		"dinner":     true,
		"dinner/veg": false,
		".cooklang":  true,
		".git":       false,
		".git/refs":  false,
	}
	for rel, want := range tests {
		if got := w.shouldWatchDir(rel); got != want {
			t.Errorf("shouldWatchDir(%q) = %v, want %v", rel, got, want)
		}
	}

	w.cfg.MaxDepth = 0
	if w.shouldWatchDir("dinner") {
		t.Error("a zero depth watch should only watch the collection itself")
	}
}

func TestIsIgnored(t *testing.T) {
	t.Parallel()

	w := &Watcher{ignores: append(append([]string{}, defaultIgnores...), "drafts/**")}
	tests := map[string]bool{
		".git/HEAD":             true,
		"dinner/.Soup.cook.swp": true,
		"Soup.cook~":            true,
		".DS_Store":             true,
		"drafts/Pie.cook":       true,
		"dinner/Soup.cook":      false,
	}
	for rel, want := range tests {
		if got := w.isIgnored(rel); got != want {
			t.Errorf("isIgnored(%q) = %v, want %v", rel, got, want)
		}
	}
}

func TestChangeKind_String(t *testing.T) {
	t.Parallel()

	for kind, want := range map[ChangeKind]string{ChangeRecipe: "recipe", ChangeImage: "image", ChangeConfig: "config", 9: "ChangeKind(9)"} {
		if got := kind.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
