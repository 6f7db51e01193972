// Package documents stores files attached to cases.
package documents

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"lawfirm-cms/internal/apperr"
	"lawfirm-cms/internal/audit"
	"lawfirm-cms/pkg/utils"

	"github.com/oklog/ulid/v2"
)

type Document struct {
	ID          int64     `json:"id"`
	CaseNumber  string    `json:"nic"`
	FileName    string    `json:"file_name"`
	ObjectKey   string    `json:"-"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

var (
	ErrNotFound        = apperr.NotFound("Document not found")
	ErrUnsupportedType = apperr.Validation("Only PDF and image files are allowed")
	ErrTooLarge        = apperr.Validation("File is too large")
)

type Recorder interface {
	Record(ctx context.Context, username, action, details string)
}

type Service struct {
	db       *utils.DB
	store    Store
	audit    Recorder
	log      *slog.Logger
	maxBytes int64
	clock    func() time.Time
}

func NewService(db *utils.DB, store Store, rec Recorder, maxBytes int64, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &Service{db: db, store: store, audit: rec, log: log, maxBytes: maxBytes, clock: time.Now}
}

func (s *Service) MaxBytes() int64 { return s.maxBytes }

type UploadInput struct {
	CaseNumber string
	FileName   string
	Size       int64
	Body       io.Reader
}

// Upload sniffs the content type instead of trusting the client, stores the
// bytes under a fresh ULID key and records the row.
func (s *Service) Upload(ctx context.Context, actor string, in UploadInput) (Document, error) {
	caseNumber := strings.TrimSpace(in.CaseNumber)
	if caseNumber == "" || in.Body == nil {
		return Document{}, apperr.Validation("NIC and file are required")
	}
	if in.Size > s.maxBytes {
		return Document{}, ErrTooLarge
	}

	br := bufio.NewReaderSize(in.Body, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return Document{}, apperr.Validation("Could not read file")
	}
	ctype := http.DetectContentType(head)
	if !allowedType(ctype) {
		return Document{}, ErrUnsupportedType
	}

	name := sanitizeName(in.FileName)
	doc := Document{
		CaseNumber:  caseNumber,
		FileName:    name,
		ObjectKey:   ulid.Make().String() + "-" + name,
		ContentType: ctype,
		SizeBytes:   in.Size,
		UploadedAt:  s.clock().UTC(),
	}

	if err := s.store.Put(ctx, doc.ObjectKey, io.LimitReader(br, s.maxBytes), in.Size, ctype); err != nil {
		return Document{}, fmt.Errorf("documents: store put: %w", err)
	}

	q := `INSERT INTO case_documents (case_number, file_name, object_key, content_type, size_bytes, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`
	args := []any{doc.CaseNumber, doc.FileName, doc.ObjectKey, doc.ContentType, doc.SizeBytes, doc.UploadedAt}
	if s.db.Dialect == utils.DialectPostgres {
		err = s.db.QueryRowContext(ctx, s.db.Rebind(q+" RETURNING id"), args...).Scan(&doc.ID)
	} else {
		var res sql.Result
		if res, err = s.db.ExecContext(ctx, q, args...); err == nil {
			doc.ID, err = res.LastInsertId()
		}
	}
	if err != nil {
		if derr := s.store.Delete(ctx, doc.ObjectKey); derr != nil {
			s.log.WarnContext(ctx, "orphaned document object", "key", doc.ObjectKey, "err", derr)
		}
		return Document{}, apperr.Persistence("document insert", err)
	}

	s.audit.Record(ctx, actor, audit.ActionUploadDocument, fmt.Sprintf("Uploaded %s to case %s", doc.FileName, doc.CaseNumber))
	return doc, nil
}

func (s *Service) List(ctx context.Context, caseNumber string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(
		`SELECT id, case_number, file_name, object_key, content_type, size_bytes, uploaded_at
		 FROM case_documents WHERE case_number = ? ORDER BY uploaded_at DESC, id DESC`), caseNumber)
	if err != nil {
		return nil, apperr.Persistence("document list", err)
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.CaseNumber, &d.FileName, &d.ObjectKey, &d.ContentType, &d.SizeBytes, &d.UploadedAt); err != nil {
			return nil, apperr.Persistence("document scan", err)
		}
		out = append(out, d)
	}
	return out, apperr.Persistence("document rows", rows.Err())
}

func (s *Service) Get(ctx context.Context, id int64) (Document, error) {
	var d Document
	err := s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT id, case_number, file_name, object_key, content_type, size_bytes, uploaded_at
		 FROM case_documents WHERE id = ?`), id).
		Scan(&d.ID, &d.CaseNumber, &d.FileName, &d.ObjectKey, &d.ContentType, &d.SizeBytes, &d.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, apperr.Persistence("document get", err)
	}
	return d, nil
}

// Open returns the document row and a reader over its bytes. The caller closes it.
func (s *Service) Open(ctx context.Context, id int64) (Document, io.ReadCloser, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return Document{}, nil, err
	}
	rc, err := s.store.Open(ctx, d.ObjectKey)
	if err != nil {
		return Document{}, nil, fmt.Errorf("documents: store open: %w", err)
	}
	return d, rc, nil
}

// Delete resolves the object key from the row; client input never names a path.
func (s *Service) Delete(ctx context.Context, actor string, id int64) error {
	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, d.ObjectKey); err != nil {
		return fmt.Errorf("documents: store delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM case_documents WHERE id = ?`), id); err != nil {
		return apperr.Persistence("document delete", err)
	}
	s.audit.Record(ctx, actor, audit.ActionDeleteDocument, fmt.Sprintf("Deleted %s from case %s", d.FileName, d.CaseNumber))
	return nil
}

func allowedType(ctype string) bool {
	return ctype == "application/pdf" || strings.HasPrefix(ctype, "image/")
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeName.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, ".")
	if name == "" || name == "_" {
		name = "file"
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return name
}
