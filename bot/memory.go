package bot

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"

	"github.com/serikit/seri"
	"github.com/serikit/seri/errors"
)

// Entry is one persona memory attached to a chat.
type Entry struct {
	ChatID    int64
	Text      string
	CreatedAt time.Time
}

// DefaultHistorySize bounds the per-chat message history.
const DefaultHistorySize = 20

// Memory stores persona memories and recent chat messages per chat. Safe for
// concurrent use.
type Memory struct {
	mu          sync.Mutex
	memories    map[int64][]Entry
	history     map[int64][]string
	historySize int
}

// NewMemory returns an empty store keeping at most historySize messages per
// chat. historySize <= 0 selects DefaultHistorySize.
func NewMemory(historySize int) *Memory {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	return &Memory{
		memories:    make(map[int64][]Entry),
		history:     make(map[int64][]string),
		historySize: historySize,
	}
}

// AddMemory stores a persona memory for a chat. The text is trimmed.
func (m *Memory) AddMemory(chatID int64, text string) Entry {
	entry := Entry{ChatID: chatID, Text: strings.TrimSpace(text), CreatedAt: time.Now().UTC()}
	m.mu.Lock()
	m.memories[chatID] = append(m.memories[chatID], entry)
	m.mu.Unlock()
	return entry
}

// Memories returns a copy of the chat's memories in insertion order.
func (m *Memory) Memories(chatID int64) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.memories[chatID]
	out := make([]Entry, len(stored))
	copy(out, stored)
	return out
}

// ClearMemories drops every memory of a chat.
func (m *Memory) ClearMemories(chatID int64) {
	m.mu.Lock()
	delete(m.memories, chatID)
	m.mu.Unlock()
}

// AppendHistory records a chat message, evicting the oldest entries once the
// history exceeds its bound.
func (m *Memory) AppendHistory(chatID int64, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := append(m.history[chatID], message)
	if over := len(h) - m.historySize; over > 0 {
		h = h[over:]
	}
	m.history[chatID] = h
}

// History returns the chat's most recent messages, oldest first. limit <= 0
// returns the full retained history.
func (m *Memory) History(chatID int64, limit int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.history[chatID]
	if limit > 0 && len(h) > limit {
		h = h[len(h)-limit:]
	}
	out := make([]string, len(h))
	copy(out, h)
	return out
}

// ShouldSummarize reports whether the chat's history has reached the
// auto-summarization threshold.
func (m *Memory) ShouldSummarize(chatID int64, threshold int) bool {
	if threshold <= 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history[chatID]) >= threshold
}

// MessagesForSummary returns the oldest batch messages of the chat and the
// total retained count.
func (m *Memory) MessagesForSummary(chatID int64, batch int) ([]string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.history[chatID]
	if batch > len(h) {
		batch = len(h)
	}
	if batch <= 0 {
		return nil, len(h)
	}
	out := make([]string, batch)
	copy(out, h[:batch])
	return out, len(h)
}

// ClearSummarized removes the oldest n messages after they have been folded
// into a summary memory.
func (m *Memory) ClearSummarized(chatID int64, n int) {
	if n <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.history[chatID]
	if n >= len(h) {
		delete(m.history, chatID)
		return
	}
	m.history[chatID] = append([]string(nil), h[n:]...)
}

// Snapshot file framing. The payload is the snapshot JSON, gzip-compressed;
// the header carries an xxhash64 checksum of the compressed payload so a
// truncated or bit-rotted file is rejected before decompression.
//
//	offset 0  4 bytes  magic "TBM1"
//	offset 4  8 bytes  xxhash64(payload), big endian
//	offset 12 n bytes  gzip(JSON)
var snapshotMagic = [4]byte{'T', 'B', 'M', '1'}

const snapshotHeaderSize = 12

type snapshotEntry struct {
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}

type snapshot struct {
	Memories map[string][]snapshotEntry `json:"memories"`
	History  map[string][]string        `json:"history"`
}

var snapshotCodec = seri.Object(seri.Describe(
	nil,
	seri.Fields(
		seri.Field("memories",
			seri.Map[map[string][]snapshotEntry](seri.List[[]snapshotEntry](seri.Object(seri.Describe(
				nil,
				seri.Fields(
					seri.Field("text", seri.String[string](), func(e *snapshotEntry) string { return e.Text }),
					seri.Field("created_at", seri.Int[int64](), func(e *snapshotEntry) int64 { return e.CreatedAt }),
				),
			)))),
			func(s *snapshot) map[string][]snapshotEntry { return s.Memories }),
		seri.Field("history",
			seri.Map[map[string][]string](seri.List[[]string](seri.String[string]())),
			func(s *snapshot) map[string][]string { return s.History }),
	),
))

func (m *Memory) capture() snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := snapshot{
		Memories: make(map[string][]snapshotEntry, len(m.memories)),
		History:  make(map[string][]string, len(m.history)),
	}
	for chatID, entries := range m.memories {
		rows := make([]snapshotEntry, len(entries))
		for i, e := range entries {
			rows[i] = snapshotEntry{Text: e.Text, CreatedAt: e.CreatedAt.Unix()}
		}
		s.Memories[strconv.FormatInt(chatID, 10)] = rows
	}
	for chatID, h := range m.history {
		s.History[strconv.FormatInt(chatID, 10)] = append([]string(nil), h...)
	}
	return s
}

// Save persists the store to path atomically.
func (m *Memory) Save(path string) error {
	data, err := seri.Marshal(snapshotCodec, m.capture())
	if err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "encoding snapshot")
	}

	var payload bytes.Buffer
	zw := gzip.NewWriter(&payload)
	if _, err := zw.Write(data); err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "compressing snapshot")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "compressing snapshot")
	}

	frame := make([]byte, snapshotHeaderSize+payload.Len())
	copy(frame, snapshotMagic[:])
	binary.BigEndian.PutUint64(frame[4:12], xxhash.Sum64(payload.Bytes()))
	copy(frame[snapshotHeaderSize:], payload.Bytes())

	tmp, err := os.CreateTemp(filepath.Dir(path), ".memory-*.bin")
	if err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "creating temp snapshot")
	}
	_, werr := tmp.Write(frame)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp.Name())
		if werr == nil {
			werr = cerr
		}
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidData, werr, "writing temp snapshot")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "replacing snapshot file")
	}
	return nil
}

// Load replaces the store's contents with a snapshot previously written by
// Save. A missing file leaves the store unchanged and returns nil.
func (m *Memory) Load(path string) error {
	frame, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "reading snapshot")
	}
	if len(frame) < snapshotHeaderSize || !bytes.Equal(frame[:4], snapshotMagic[:]) {
		return errors.Corrupt("snapshot %s: bad magic", path)
	}
	payload := frame[snapshotHeaderSize:]
	want := binary.BigEndian.Uint64(frame[4:12])
	if got := xxhash.Sum64(payload); got != want {
		return errors.Corrupt("snapshot %s: checksum mismatch (%016x != %016x)", path, got, want)
	}

	zr, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindCorrupt, err, "decompressing snapshot")
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindCorrupt, err, "decompressing snapshot")
	}
	if err := zr.Close(); err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindCorrupt, err, "decompressing snapshot")
	}

	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindCorrupt, err, "decoding snapshot")
	}

	memories := make(map[int64][]Entry, len(s.Memories))
	for key, rows := range s.Memories {
		chatID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return errors.Corrupt("snapshot %s: chat id %q", path, key)
		}
		entries := make([]Entry, len(rows))
		for i, r := range rows {
			entries[i] = Entry{ChatID: chatID, Text: r.Text, CreatedAt: time.Unix(r.CreatedAt, 0).UTC()}
		}
		memories[chatID] = entries
	}
	history := make(map[int64][]string, len(s.History))
	for key, h := range s.History {
		chatID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return errors.Corrupt("snapshot %s: chat id %q", path, key)
		}
		history[chatID] = append([]string(nil), h...)
	}

	m.mu.Lock()
	m.memories = memories
	m.history = history
	m.mu.Unlock()
	return nil
}
