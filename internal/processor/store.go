package processor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/asp616848/live-call-insight/internal/types"
)

// recentTurns is how many trailing segments Recent keeps per call.
const recentTurns = 6

func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadConversation reads one conversation record.
func LoadConversation(path string) (types.Conversation, error) {
	var conv types.Conversation
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return conv, fmt.Errorf("conversation %s: %w", filepath.Base(path), ErrNotFound)
	}
	if err != nil {
		return conv, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&conv); err != nil {
		return conv, fmt.Errorf("decode conversation %s: %w", filepath.Base(path), err)
	}
	return conv, nil
}

// ResolveConversation accepts a path or a bare name inside the
// conversations dir, with or without the .json extension.
func (p *Processor) ResolveConversation(name string) string {
	if _, err := os.Stat(name); err == nil {
		return name
	}
	base := filepath.Base(name)
	if filepath.Ext(base) != ".json" {
		base = strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
	}
	return filepath.Join(p.conversationsDir, base)
}

type convoFile struct {
	path string
	mod  int64
}

func (p *Processor) conversationFiles() ([]convoFile, error) {
	dirents, err := os.ReadDir(p.conversationsDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	var files []convoFile
	for _, d := range dirents {
		if d.IsDir() || filepath.Ext(d.Name()) != ".json" || strings.HasPrefix(d.Name(), ".") {
			continue
		}
		info, err := d.Info()
		if err != nil {
			continue
		}
		files = append(files, convoFile{path: filepath.Join(p.conversationsDir, d.Name()), mod: info.ModTime().UnixNano()})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].mod != files[j].mod {
			return files[i].mod > files[j].mod
		}
		return files[i].path < files[j].path
	})
	return files, nil
}

// Recent returns the n most recently written conversations, newest first,
// each trimmed to its last few turns.
func (p *Processor) Recent(n int) ([]types.Conversation, error) {
	files, err := p.conversationFiles()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(files) > n {
		files = files[:n]
	}
	out := make([]types.Conversation, 0, len(files))
	for _, f := range files {
		conv, err := LoadConversation(f.path)
		if err != nil {
			p.log.WithError(err).Warn("skipping unreadable conversation")
			continue
		}
		if len(conv.Conversation) > recentTurns {
			conv.Conversation = conv.Conversation[len(conv.Conversation)-recentTurns:]
		}
		out = append(out, conv)
	}
	return out, nil
}

// Summaries loads the summary of every conversation record.
func (p *Processor) Summaries() ([]types.CallSummary, error) {
	files, err := p.conversationFiles()
	if err != nil {
		return nil, err
	}
	out := make([]types.CallSummary, 0, len(files))
	for _, f := range files {
		conv, err := LoadConversation(f.path)
		if err != nil {
			p.log.WithError(err).Warn("skipping unreadable conversation")
			continue
		}
		out = append(out, conv.Summary)
	}
	return out, nil
}
