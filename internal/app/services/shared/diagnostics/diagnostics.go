// Package diagnostics inspects and repairs raw collections in the document
// store. It replaces one-off maintenance scripts with a single parameterised
// tool: a collection, an Extended JSON filter, an optional projection and an
// optional confirmed delete.
package diagnostics

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrMissingCollection  = errors.New("collection name is required")
	ErrEmptyFilter        = errors.New("refusing to delete with an empty filter")
	ErrDeleteNotConfirmed = errors.New("delete was not confirmed")
)

// CollectionStore is the subset of the document store the diagnostics need.
type CollectionStore interface {
	Count(ctx context.Context, collection string, filter bson.D) (int64, error)
	Find(ctx context.Context, collection string, filter, projection bson.D, limit int64) ([]bson.M, error)
	DeleteMany(ctx context.Context, collection string, filter bson.D) (int64, error)
}

// Confirmer approves destructive operations.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

type Query struct {
	Collection string
	// Filter and Projection are Extended JSON documents; empty means {}.
	Filter     string
	Projection string
	Limit      int64
	// AllowAll permits Delete with an empty filter.
	AllowAll bool
}

type InspectResult struct {
	Matched   int64
	Documents []bson.M
}

type DeleteResult struct {
	Matched int64
	Deleted int64
}

type Diagnostics struct {
	Store CollectionStore
	Log   *logrus.Logger
}

func NewDiagnostics(store CollectionStore, logger *logrus.Logger) *Diagnostics {
	return &Diagnostics{
		Store: store,
		Log:   logger,
	}
}

// Inspect counts the documents matching the query and returns up to Limit
// of them with the projection applied.
func (d *Diagnostics) Inspect(ctx context.Context, query Query) (*InspectResult, error) {
	filter, projection, err := query.parse()
	if err != nil {
		return nil, err
	}

	matched, err := d.Store.Count(ctx, query.Collection, filter)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", query.Collection, err)
	}

	documents, err := d.Store.Find(ctx, query.Collection, filter, projection, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", query.Collection, err)
	}

	d.Log.WithFields(logrus.Fields{
		"collection": query.Collection,
		"matched":    matched,
		"returned":   len(documents),
	}).Info("inspected collection")

	return &InspectResult{Matched: matched, Documents: documents}, nil
}

// Delete removes every document matching the query once the confirmer
// approves. Nothing is deleted when no document matches.
func (d *Diagnostics) Delete(ctx context.Context, query Query, confirmer Confirmer) (*DeleteResult, error) {
	filter, _, err := query.parse()
	if err != nil {
		return nil, err
	}
	if len(filter) == 0 && !query.AllowAll {
		return nil, ErrEmptyFilter
	}

	matched, err := d.Store.Count(ctx, query.Collection, filter)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", query.Collection, err)
	}

	result := &DeleteResult{Matched: matched}
	if matched == 0 {
		d.Log.WithField("collection", query.Collection).Info("no documents match, nothing to delete")
		return result, nil
	}

	prompt := fmt.Sprintf("Delete %d document(s) from %q matching %s?", matched, query.Collection, displayFilter(query.Filter))
	confirmed, err := confirmer.Confirm(prompt)
	if err != nil {
		return result, err
	}
	if !confirmed {
		d.Log.WithField("collection", query.Collection).Warn("delete aborted")
		return result, ErrDeleteNotConfirmed
	}

	deleted, err := d.Store.DeleteMany(ctx, query.Collection, filter)
	if err != nil {
		return result, fmt.Errorf("delete from %s: %w", query.Collection, err)
	}
	result.Deleted = deleted

	d.Log.WithFields(logrus.Fields{
		"collection": query.Collection,
		"matched":    matched,
		"deleted":    deleted,
	}).Info("deleted documents")

	return result, nil
}

func (q Query) parse() (bson.D, bson.D, error) {
	if strings.TrimSpace(q.Collection) == "" {
		return nil, nil, ErrMissingCollection
	}
	filter, err := ParseDocument(q.Filter)
	if err != nil {
		return nil, nil, fmt.Errorf("filter: %w", err)
	}
	projection, err := ParseDocument(q.Projection)
	if err != nil {
		return nil, nil, fmt.Errorf("projection: %w", err)
	}
	return filter, projection, nil
}

// ParseDocument decodes an Extended JSON document, canonical or relaxed.
func ParseDocument(raw string) (bson.D, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return bson.D{}, nil
	}

	var document bson.D
	err := bson.UnmarshalExtJSON([]byte(raw), false, &document)
	if err != nil {
		return nil, err
	}
	return document, nil
}

// FormatDocument renders a document as indented relaxed Extended JSON.
func FormatDocument(document bson.M) (string, error) {
	data, err := bson.MarshalExtJSONIndent(document, false, false, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func displayFilter(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "{}"
	}
	return raw
}

// PromptConfirmer asks on Out and accepts only the literal answer "yes".
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (p PromptConfirmer) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(p.Out, "%s Type 'yes' to continue: ", prompt)

	answer, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return strings.TrimSpace(answer) == "yes", nil
}

// AutoConfirmer approves every prompt. Used for --yes.
type AutoConfirmer struct{}

func (AutoConfirmer) Confirm(string) (bool, error) {
	return true, nil
}
