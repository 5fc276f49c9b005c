package content

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/decisionlab/unisearch/internal/domain"
)

// Reserved hash field names. Metadata travels as one JSON blob so its
// values keep their original types through the string-valued hash.
const (
	fieldTitle     = "__title"
	fieldSubtitle  = "__subtitle"
	fieldText      = "__text"
	fieldCaseID    = "__case_id"
	fieldCaseTitle = "__case_title"
	fieldProjectID = "__project_id"
	fieldUpdatedAt = "__updated_at"
	fieldEmbedding = "__embedding"
	fieldDocID     = "__doc_id"
	fieldMeta      = "__meta"
)

func entityKey(typ domain.ContentType, id string) string {
	return fmt.Sprintf("%s%s:%s", domain.KeyPrefix, typ, id)
}

func chunkKey(id string) string {
	return domain.KeyPrefix + "chunk:" + id
}

func recentIndexKey(typ domain.ContentType) string {
	return fmt.Sprintf("%sidx:%s:recent", domain.KeyPrefix, typ)
}

func chunkIndexKey() string {
	return domain.KeyPrefix + "idx:chunk:recent"
}

func caseInquiriesKey(caseID string) string {
	return fmt.Sprintf("%sidx:case:%s:inquiries", domain.KeyPrefix, caseID)
}

// buildHashFields converts a write-side entity into a flat map for HSET.
func buildHashFields(e *domain.Entity, vec []float32, updatedAt int64) map[string]string {
	m := make(map[string]string, 8+len(e.Metadata))
	m[fieldTitle] = e.Title
	m[fieldSubtitle] = e.Subtitle
	m[fieldText] = e.Text
	m[fieldCaseID] = e.CaseID
	m[fieldCaseTitle] = e.CaseTitle
	m[fieldProjectID] = e.ProjectID
	m[fieldUpdatedAt] = strconv.FormatInt(updatedAt, 10)
	m[fieldEmbedding] = vectorToBytes(vec)
	if e.ParentID != "" {
		m[fieldDocID] = e.ParentID
	}
	if len(e.Metadata) > 0 {
		if blob, err := json.Marshal(e.Metadata); err == nil {
			m[fieldMeta] = string(blob)
		}
	}
	return m
}

// parseHashFields converts a flat hash map back into a candidate record.
// For document chunks the candidate id is the parent document id; the chunk
// id survives in metadata.
func parseHashFields(id string, typ domain.ContentType, m map[string]string) domain.Candidate {
	cand := domain.Candidate{
		ID:       id,
		Type:     typ,
		Metadata: make(map[string]any),
	}

	for k, v := range m {
		switch k {
		case fieldTitle:
			cand.Title = v
		case fieldSubtitle:
			cand.Subtitle = v
		case fieldCaseID:
			cand.CaseID = v
		case fieldCaseTitle:
			cand.CaseTitle = v
		case fieldProjectID:
			cand.ProjectID = v
		case fieldUpdatedAt:
			if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
				cand.UpdatedAt = ts
			}
		case fieldEmbedding:
			cand.Embedding = bytesToVector(v)
		case fieldDocID:
			cand.ID = v
			cand.Metadata["chunk_id"] = id
		case fieldMeta:
			var meta map[string]any
			if json.Unmarshal([]byte(v), &meta) == nil {
				for mk, mv := range meta {
					cand.Metadata[mk] = mv
				}
			}
		case fieldText:
			// entity text is not echoed into search results
		}
	}

	return cand
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
