package pipeline

import (
	"hash/fnv"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"wisbridge/internal/notification"
)

const lockStripes = 32

// Writer persists resolved file bytes under the output root. The
// destination is fully determined by the delivery topic and the
// message's relPath: each dot-separated topic segment becomes one
// directory level, and only the final segment of relPath is used as
// the filename. Directory components inside relPath are discarded on
// purpose; the topic alone shapes the tree.
type Writer struct {
	root string

	// Writes to the same destination serialize on a striped lock so
	// topic collisions cannot interleave partial file contents.
	locks [lockStripes]sync.Mutex
}

// NewWriter builds a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{root: dir}
}

// Root returns the configured output root.
func (w *Writer) Root() string {
	return w.root
}

// Write persists content at the path derived from topic and message,
// creating missing directories. An existing file at the destination is
// overwritten. Returns the written path.
func (w *Writer) Write(topic string, msg *notification.Message, content []byte) (string, error) {
	dest, err := w.DerivePath(topic, msg.RelPath)
	if err != nil {
		return "", err
	}

	lock := &w.locks[pathStripe(dest)]
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fail(KindWrite, "create output directory: %v", err)
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return "", fail(KindWrite, "write %s: %v", dest, err)
	}
	return dest, nil
}

// DerivePath maps a topic and a notification relPath to the output
// location without touching the filesystem. Topic segments and the
// extracted filename are rejected if they could escape the output
// root: the broker and producers control both strings.
func (w *Writer) DerivePath(topic, relPath string) (string, error) {
	segments := strings.Split(topic, ".")
	for _, seg := range segments {
		if !safeSegment(seg) {
			return "", fail(KindWrite, "topic %q contains unsafe segment %q", topic, seg)
		}
	}

	name := path.Base(relPath)
	if !safeSegment(name) {
		return "", fail(KindWrite, "relPath %q yields unsafe filename %q", relPath, name)
	}

	dest := filepath.Join(w.root, filepath.Join(segments...), name)
	rel, err := filepath.Rel(w.root, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fail(KindWrite, "derived path %q escapes output root", dest)
	}
	return dest, nil
}

func safeSegment(seg string) bool {
	switch seg {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(seg, `/\`)
}

func pathStripe(p string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(p))
	return h.Sum32() % lockStripes
}
