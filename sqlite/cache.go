package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/html2md"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ html2md.DocumentCache = (*DocumentCache)(nil)

// DocumentCache implements html2md.DocumentCache using SQLite.
type DocumentCache struct {
	db *DB

	// TTL expires entries older than this. Zero keeps entries forever.
	TTL time.Duration

	// Now returns the current time. Tests replace it.
	Now func() time.Time
}

// NewDocumentCache creates a new DocumentCache.
func NewDocumentCache(db *DB) *DocumentCache {
	return &DocumentCache{db: db, Now: time.Now}
}

// FindDocument returns the cached document for req.
// Expired entries are reported as ENOTFOUND.
func (c *DocumentCache) FindDocument(ctx context.Context, req *html2md.ConversionRequest) (*html2md.MarkdownDocument, error) {
	var doc html2md.MarkdownDocument
	var createdAt string

	err := c.db.QueryRowContext(ctx, `
		SELECT source_url, title, markdown, tokens, created_at
		FROM documents
		WHERE cache_key = ?
	`, CacheKey(req)).Scan(&doc.SourceURL, &doc.Title, &doc.Body, &doc.Tokens, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, html2md.Errorf(html2md.ENOTFOUND, "document not cached")
	}
	if err != nil {
		return nil, err
	}

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, html2md.WrapError(err, html2md.EINTERNAL, "reading cache entry")
	}
	if c.expired(created) {
		return nil, html2md.Errorf(html2md.ENOTFOUND, "cached document expired")
	}

	return &doc, nil
}

// SaveDocument stores doc as the result of req, replacing any previous entry.
func (c *DocumentCache) SaveDocument(ctx context.Context, req *html2md.ConversionRequest, doc *html2md.MarkdownDocument) error {
	if doc == nil {
		return html2md.Errorf(html2md.EINVALID, "document required")
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO documents (id, cache_key, source_url, title, markdown, tokens, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			source_url = excluded.source_url,
			title = excluded.title,
			markdown = excluded.markdown,
			tokens = excluded.tokens,
			created_at = excluded.created_at
	`, uuid.New().String(), CacheKey(req), doc.SourceURL, doc.Title, doc.Body, doc.Tokens,
		c.Now().UTC().Format(time.RFC3339))

	return err
}

// Prune deletes expired entries and returns how many were removed.
// It does nothing when TTL is zero.
func (c *DocumentCache) Prune(ctx context.Context) (int64, error) {
	if c.TTL <= 0 {
		return 0, nil
	}

	cutoff := c.Now().Add(-c.TTL).UTC().Format(time.RFC3339)
	res, err := c.db.ExecContext(ctx, `DELETE FROM documents WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (c *DocumentCache) expired(created time.Time) bool {
	return c.TTL > 0 && c.Now().Sub(created) > c.TTL
}
