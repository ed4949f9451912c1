// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package livestate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/automerge/automerge-go"
)

const (
	orderKey     = "order"
	entityPrefix = "e:"
)

// Document is the persisted form of one container: an automerge map keyed
// by entity id, plus the list order. Keying by id means two snapshots that
// touched different entities merge without conflict.
type Document struct {
	doc *automerge.Doc
}

func NewDocument() *Document {
	return &Document{doc: automerge.New()}
}

func LoadDocument(raw []byte) (*Document, error) {
	doc, err := automerge.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Apply writes entries into the document, deleting entities that are no
// longer present, and commits if anything changed.
func (d *Document) Apply(entries []Entry) (bool, error) {
	root := d.doc.RootMap()

	keys, err := root.Keys()
	if err != nil {
		return false, fmt.Errorf("failed to list document keys: %w", err)
	}
	stale := make(map[string]bool)
	for _, k := range keys {
		if strings.HasPrefix(k, entityPrefix) {
			stale[k] = true
		}
	}

	changed := false
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		key := entityPrefix + e.ID
		delete(stale, key)
		order = append(order, e.ID)

		current, err := d.str(key)
		if err != nil {
			return false, err
		}
		if current == string(e.Payload) {
			continue
		}
		if err := root.Set(key, string(e.Payload)); err != nil {
			return false, fmt.Errorf("failed to set %s: %w", key, err)
		}
		changed = true
	}

	for key := range stale {
		if err := root.Delete(key); err != nil {
			return false, fmt.Errorf("failed to delete %s: %w", key, err)
		}
		changed = true
	}

	encodedOrder, err := json.Marshal(order)
	if err != nil {
		return false, err
	}
	currentOrder, err := d.str(orderKey)
	if err != nil {
		return false, err
	}
	if currentOrder != string(encodedOrder) {
		if err := root.Set(orderKey, string(encodedOrder)); err != nil {
			return false, fmt.Errorf("failed to set order: %w", err)
		}
		changed = true
	}

	if !changed {
		return false, nil
	}
	if _, err := d.doc.Commit("flush", automerge.CommitOptions{AllowEmpty: true}); err != nil {
		return false, fmt.Errorf("failed to commit document: %w", err)
	}
	return true, nil
}

// Entries reads the document back in list order.
func (d *Document) Entries() ([]Entry, error) {
	rawOrder, err := d.str(orderKey)
	if err != nil {
		return nil, err
	}
	if rawOrder == "" {
		return []Entry{}, nil
	}
	var order []string
	if err := json.Unmarshal([]byte(rawOrder), &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}

	entries := make([]Entry, 0, len(order))
	for _, id := range order {
		payload, err := d.str(entityPrefix + id)
		if err != nil {
			return nil, err
		}
		if payload == "" {
			// order and entity writes from different snapshots can
			// disagree after a merge
			continue
		}
		entries = append(entries, Entry{ID: id, Payload: []byte(payload)})
	}
	return entries, nil
}

func (d *Document) Save() []byte {
	return d.doc.Save()
}

func (d *Document) str(key string) (string, error) {
	v, err := d.doc.RootMap().Get(key)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	if v == nil || v.Kind() != automerge.KindStr {
		return "", nil
	}
	return v.Str(), nil
}
