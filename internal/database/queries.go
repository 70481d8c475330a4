package database

// Hand-written query layer in the style of sqlc-generated code: one
// Queries struct over a DBTX, one method per statement, Params/Row structs
// where a statement takes or returns more than a single value.

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// --- Languages ---

type Language struct {
	Code         string
	Name         string
	Family       pgtype.Text
	Script       pgtype.Text
	Endangerment string
	Regions      []string
	Speakers     pgtype.Int4
	Metadata     []byte
	CreatedAt    pgtype.Timestamptz
}

const upsertLanguage = `
INSERT INTO languages (code, name, family, script, endangerment, regions, speakers, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (code) DO UPDATE SET
  name = EXCLUDED.name,
  family = EXCLUDED.family,
  script = EXCLUDED.script,
  endangerment = EXCLUDED.endangerment,
  regions = EXCLUDED.regions,
  speakers = EXCLUDED.speakers,
  metadata = EXCLUDED.metadata
RETURNING code, name, family, script, endangerment, regions, speakers, metadata, created_at
`

type UpsertLanguageParams struct {
	Code         string
	Name         string
	Family       pgtype.Text
	Script       pgtype.Text
	Endangerment string
	Regions      []string
	Speakers     pgtype.Int4
	Metadata     []byte
}

func (q *Queries) UpsertLanguage(ctx context.Context, arg UpsertLanguageParams) (Language, error) {
	row := q.db.QueryRow(ctx, upsertLanguage,
		arg.Code, arg.Name, arg.Family, arg.Script, arg.Endangerment, arg.Regions, arg.Speakers, arg.Metadata)
	var l Language
	err := row.Scan(&l.Code, &l.Name, &l.Family, &l.Script, &l.Endangerment, &l.Regions, &l.Speakers, &l.Metadata, &l.CreatedAt)
	return l, err
}

const retrieveLanguage = `
SELECT code, name, family, script, endangerment, regions, speakers, metadata, created_at
FROM languages WHERE code = $1
`

func (q *Queries) RetrieveLanguage(ctx context.Context, code string) (Language, error) {
	row := q.db.QueryRow(ctx, retrieveLanguage, code)
	var l Language
	err := row.Scan(&l.Code, &l.Name, &l.Family, &l.Script, &l.Endangerment, &l.Regions, &l.Speakers, &l.Metadata, &l.CreatedAt)
	return l, err
}

const getLanguages = `
SELECT code, name, family, script, endangerment, regions, speakers, metadata, created_at
FROM languages ORDER BY code LIMIT $1 OFFSET $2
`

type GetLanguagesParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) GetLanguages(ctx context.Context, arg GetLanguagesParams) ([]Language, error) {
	rows, err := q.db.Query(ctx, getLanguages, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Language
	for rows.Next() {
		var l Language
		if err := rows.Scan(&l.Code, &l.Name, &l.Family, &l.Script, &l.Endangerment, &l.Regions, &l.Speakers, &l.Metadata, &l.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

func (q *Queries) DeleteLanguage(ctx context.Context, code string) error {
	_, err := q.db.Exec(ctx, "DELETE FROM languages WHERE code = $1", code)
	return err
}

const getLanguageStats = `
SELECT
  (SELECT count(*) FROM recordings WHERE language_code = $1),
  (SELECT count(*) FROM transcriptions WHERE language_code = $1),
  (SELECT count(*) FROM phrases WHERE language_code = $1),
  (SELECT count(*) FROM lessons WHERE language_code = $1)
`

type GetLanguageStatsRow struct {
	Recordings     int64
	Transcriptions int64
	Phrases        int64
	Lessons        int64
}

func (q *Queries) GetLanguageStats(ctx context.Context, code string) (GetLanguageStatsRow, error) {
	row := q.db.QueryRow(ctx, getLanguageStats, code)
	var s GetLanguageStatsRow
	err := row.Scan(&s.Recordings, &s.Transcriptions, &s.Phrases, &s.Lessons)
	return s, err
}

// --- Contributors ---

type Contributor struct {
	Handle           string
	Name             pgtype.Text
	Email            string
	ContactEncrypted []byte
	Role             string
	ApiKeyHash       string
	CreatedAt        pgtype.Timestamptz
}

const upsertContributor = `
INSERT INTO contributors (handle, name, email, contact_encrypted, role, api_key_hash)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (handle) DO UPDATE SET
  name = EXCLUDED.name,
  email = EXCLUDED.email,
  contact_encrypted = EXCLUDED.contact_encrypted,
  role = EXCLUDED.role,
  api_key_hash = EXCLUDED.api_key_hash
RETURNING handle, name, email, contact_encrypted, role, api_key_hash, created_at
`

type UpsertContributorParams struct {
	Handle           string
	Name             pgtype.Text
	Email            string
	ContactEncrypted []byte
	Role             string
	ApiKeyHash       string
}

func (q *Queries) UpsertContributor(ctx context.Context, arg UpsertContributorParams) (Contributor, error) {
	row := q.db.QueryRow(ctx, upsertContributor,
		arg.Handle, arg.Name, arg.Email, arg.ContactEncrypted, arg.Role, arg.ApiKeyHash)
	var c Contributor
	err := row.Scan(&c.Handle, &c.Name, &c.Email, &c.ContactEncrypted, &c.Role, &c.ApiKeyHash, &c.CreatedAt)
	return c, err
}

const retrieveContributor = `
SELECT handle, name, email, contact_encrypted, role, api_key_hash, created_at
FROM contributors WHERE handle = $1
`

func (q *Queries) RetrieveContributor(ctx context.Context, handle string) (Contributor, error) {
	row := q.db.QueryRow(ctx, retrieveContributor, handle)
	var c Contributor
	err := row.Scan(&c.Handle, &c.Name, &c.Email, &c.ContactEncrypted, &c.Role, &c.ApiKeyHash, &c.CreatedAt)
	return c, err
}

const getContributors = `
SELECT handle FROM contributors ORDER BY handle LIMIT $1 OFFSET $2
`

type GetContributorsParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) GetContributors(ctx context.Context, arg GetContributorsParams) ([]string, error) {
	rows, err := q.db.Query(ctx, getContributors, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var handles []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, rows.Err()
}

func (q *Queries) DeleteContributor(ctx context.Context, handle string) error {
	_, err := q.db.Exec(ctx, "DELETE FROM contributors WHERE handle = $1", handle)
	return err
}

// GetKeyByContributor returns the stored API key hash for a contributor.
func (q *Queries) GetKeyByContributor(ctx context.Context, handle string) (string, error) {
	row := q.db.QueryRow(ctx, "SELECT api_key_hash FROM contributors WHERE handle = $1", handle)
	var hash string
	err := row.Scan(&hash)
	return hash, err
}

const retrieveContributorByKeyHash = `
SELECT handle, name, email, contact_encrypted, role, api_key_hash, created_at
FROM contributors WHERE api_key_hash = $1
`

func (q *Queries) RetrieveContributorByKeyHash(ctx context.Context, hash string) (Contributor, error) {
	row := q.db.QueryRow(ctx, retrieveContributorByKeyHash, hash)
	var c Contributor
	err := row.Scan(&c.Handle, &c.Name, &c.Email, &c.ContactEncrypted, &c.Role, &c.ApiKeyHash, &c.CreatedAt)
	return c, err
}

// --- Recordings ---

type Recording struct {
	RecordingID       string
	ContributorHandle string
	LanguageCode      string
	Title             pgtype.Text
	Speaker           pgtype.Text
	DurationSeconds   float64
	SampleRate        int32
	SizeBytes         int64
	Status            string
	FilePath          string
	CreatedAt         pgtype.Timestamptz
}

const insertRecording = `
INSERT INTO recordings (recording_id, contributor_handle, language_code, title, speaker,
                        duration_seconds, sample_rate, size_bytes, status, file_path)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING recording_id, contributor_handle, language_code, title, speaker,
          duration_seconds, sample_rate, size_bytes, status, file_path, created_at
`

type InsertRecordingParams struct {
	RecordingID       string
	ContributorHandle string
	LanguageCode      string
	Title             pgtype.Text
	Speaker           pgtype.Text
	DurationSeconds   float64
	SampleRate        int32
	SizeBytes         int64
	Status            string
	FilePath          string
}

func (q *Queries) InsertRecording(ctx context.Context, arg InsertRecordingParams) (Recording, error) {
	row := q.db.QueryRow(ctx, insertRecording,
		arg.RecordingID, arg.ContributorHandle, arg.LanguageCode, arg.Title, arg.Speaker,
		arg.DurationSeconds, arg.SampleRate, arg.SizeBytes, arg.Status, arg.FilePath)
	var r Recording
	err := row.Scan(&r.RecordingID, &r.ContributorHandle, &r.LanguageCode, &r.Title, &r.Speaker,
		&r.DurationSeconds, &r.SampleRate, &r.SizeBytes, &r.Status, &r.FilePath, &r.CreatedAt)
	return r, err
}

const retrieveRecording = `
SELECT recording_id, contributor_handle, language_code, title, speaker,
       duration_seconds, sample_rate, size_bytes, status, file_path, created_at
FROM recordings WHERE recording_id = $1
`

func (q *Queries) RetrieveRecording(ctx context.Context, recordingID string) (Recording, error) {
	row := q.db.QueryRow(ctx, retrieveRecording, recordingID)
	var r Recording
	err := row.Scan(&r.RecordingID, &r.ContributorHandle, &r.LanguageCode, &r.Title, &r.Speaker,
		&r.DurationSeconds, &r.SampleRate, &r.SizeBytes, &r.Status, &r.FilePath, &r.CreatedAt)
	return r, err
}

const getRecordingsByContributor = `
SELECT recording_id, contributor_handle, language_code, title, speaker,
       duration_seconds, sample_rate, size_bytes, status, file_path, created_at
FROM recordings WHERE contributor_handle = $1
ORDER BY created_at DESC LIMIT $2 OFFSET $3
`

type GetRecordingsByContributorParams struct {
	ContributorHandle string
	Limit             int32
	Offset            int32
}

func (q *Queries) GetRecordingsByContributor(ctx context.Context, arg GetRecordingsByContributorParams) ([]Recording, error) {
	rows, err := q.db.Query(ctx, getRecordingsByContributor, arg.ContributorHandle, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Recording
	for rows.Next() {
		var r Recording
		if err := rows.Scan(&r.RecordingID, &r.ContributorHandle, &r.LanguageCode, &r.Title, &r.Speaker,
			&r.DurationSeconds, &r.SampleRate, &r.SizeBytes, &r.Status, &r.FilePath, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

type UpdateRecordingStatusParams struct {
	RecordingID string
	Status      string
}

func (q *Queries) UpdateRecordingStatus(ctx context.Context, arg UpdateRecordingStatusParams) error {
	_, err := q.db.Exec(ctx, "UPDATE recordings SET status = $2 WHERE recording_id = $1", arg.RecordingID, arg.Status)
	return err
}

func (q *Queries) DeleteRecording(ctx context.Context, recordingID string) error {
	_, err := q.db.Exec(ctx, "DELETE FROM recordings WHERE recording_id = $1", recordingID)
	return err
}

// --- Transcriptions ---

type Transcription struct {
	RecordingID     string
	LanguageCode    string
	Text            string
	Confidence      float64
	DurationSeconds float64
	Engine          string
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

const upsertTranscription = `
INSERT INTO transcriptions (recording_id, language_code, text, confidence, duration_seconds, engine)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (recording_id) DO UPDATE SET
  text = EXCLUDED.text,
  confidence = EXCLUDED.confidence,
  duration_seconds = EXCLUDED.duration_seconds,
  engine = EXCLUDED.engine,
  updated_at = now()
RETURNING recording_id, language_code, text, confidence, duration_seconds, engine, created_at, updated_at
`

type UpsertTranscriptionParams struct {
	RecordingID     string
	LanguageCode    string
	Text            string
	Confidence      float64
	DurationSeconds float64
	Engine          string
}

func (q *Queries) UpsertTranscription(ctx context.Context, arg UpsertTranscriptionParams) (Transcription, error) {
	row := q.db.QueryRow(ctx, upsertTranscription,
		arg.RecordingID, arg.LanguageCode, arg.Text, arg.Confidence, arg.DurationSeconds, arg.Engine)
	var t Transcription
	err := row.Scan(&t.RecordingID, &t.LanguageCode, &t.Text, &t.Confidence, &t.DurationSeconds, &t.Engine, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

const retrieveTranscription = `
SELECT recording_id, language_code, text, confidence, duration_seconds, engine, created_at, updated_at
FROM transcriptions WHERE recording_id = $1
`

func (q *Queries) RetrieveTranscription(ctx context.Context, recordingID string) (Transcription, error) {
	row := q.db.QueryRow(ctx, retrieveTranscription, recordingID)
	var t Transcription
	err := row.Scan(&t.RecordingID, &t.LanguageCode, &t.Text, &t.Confidence, &t.DurationSeconds, &t.Engine, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

const getTranscriptionsByLanguage = `
SELECT recording_id, language_code, text, confidence, duration_seconds, engine, created_at, updated_at
FROM transcriptions WHERE language_code = $1
ORDER BY created_at DESC LIMIT $2 OFFSET $3
`

type GetTranscriptionsByLanguageParams struct {
	LanguageCode string
	Limit        int32
	Offset       int32
}

func (q *Queries) GetTranscriptionsByLanguage(ctx context.Context, arg GetTranscriptionsByLanguageParams) ([]Transcription, error) {
	rows, err := q.db.Query(ctx, getTranscriptionsByLanguage, arg.LanguageCode, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transcription
	for rows.Next() {
		var t Transcription
		if err := rows.Scan(&t.RecordingID, &t.LanguageCode, &t.Text, &t.Confidence, &t.DurationSeconds, &t.Engine, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// --- Phrases ---

type Phrase struct {
	PhraseID     int64
	LanguageCode string
	Text         string
	Translation  string
	Locale       string
	Notes        pgtype.Text
	Reviewed     bool
	Origin       string
	CreatedAt    pgtype.Timestamptz
}

const insertPhrase = `
INSERT INTO phrases (language_code, text, translation, locale, notes, origin, embedding)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING phrase_id, language_code, text, translation, locale, notes, reviewed, origin, created_at
`

type InsertPhraseParams struct {
	LanguageCode string
	Text         string
	Translation  string
	Locale       string
	Notes        pgtype.Text
	Origin       string
	Embedding    *pgvector.Vector
}

func (q *Queries) InsertPhrase(ctx context.Context, arg InsertPhraseParams) (Phrase, error) {
	row := q.db.QueryRow(ctx, insertPhrase,
		arg.LanguageCode, arg.Text, arg.Translation, arg.Locale, arg.Notes, arg.Origin, arg.Embedding)
	var p Phrase
	err := row.Scan(&p.PhraseID, &p.LanguageCode, &p.Text, &p.Translation, &p.Locale, &p.Notes, &p.Reviewed, &p.Origin, &p.CreatedAt)
	return p, err
}

const retrievePhrase = `
SELECT phrase_id, language_code, text, translation, locale, notes, reviewed, origin, created_at
FROM phrases WHERE phrase_id = $1
`

func (q *Queries) RetrievePhrase(ctx context.Context, phraseID int64) (Phrase, error) {
	row := q.db.QueryRow(ctx, retrievePhrase, phraseID)
	var p Phrase
	err := row.Scan(&p.PhraseID, &p.LanguageCode, &p.Text, &p.Translation, &p.Locale, &p.Notes, &p.Reviewed, &p.Origin, &p.CreatedAt)
	return p, err
}

const getPhrasesByLanguage = `
SELECT phrase_id, language_code, text, translation, locale, notes, reviewed, origin, created_at
FROM phrases WHERE language_code = $1 AND ($2::boolean IS NULL OR reviewed = $2)
ORDER BY phrase_id LIMIT $3 OFFSET $4
`

type GetPhrasesByLanguageParams struct {
	LanguageCode string
	Reviewed     pgtype.Bool
	Limit        int32
	Offset       int32
}

func (q *Queries) GetPhrasesByLanguage(ctx context.Context, arg GetPhrasesByLanguageParams) ([]Phrase, error) {
	rows, err := q.db.Query(ctx, getPhrasesByLanguage, arg.LanguageCode, arg.Reviewed, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Phrase
	for rows.Next() {
		var p Phrase
		if err := rows.Scan(&p.PhraseID, &p.LanguageCode, &p.Text, &p.Translation, &p.Locale, &p.Notes, &p.Reviewed, &p.Origin, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const reviewPhrase = `
UPDATE phrases SET reviewed = true WHERE phrase_id = $1
RETURNING phrase_id, language_code, text, translation, locale, notes, reviewed, origin, created_at
`

func (q *Queries) ReviewPhrase(ctx context.Context, phraseID int64) (Phrase, error) {
	row := q.db.QueryRow(ctx, reviewPhrase, phraseID)
	var p Phrase
	err := row.Scan(&p.PhraseID, &p.LanguageCode, &p.Text, &p.Translation, &p.Locale, &p.Notes, &p.Reviewed, &p.Origin, &p.CreatedAt)
	return p, err
}

func (q *Queries) DeletePhrase(ctx context.Context, phraseID int64) error {
	_, err := q.db.Exec(ctx, "DELETE FROM phrases WHERE phrase_id = $1", phraseID)
	return err
}

// GetGlossary returns short reviewed phrase pairs used to pin terminology
// in machine translation prompts.
const getGlossary = `
SELECT phrase_id, language_code, text, translation, locale, notes, reviewed, origin, created_at
FROM phrases
WHERE language_code = $1 AND locale = $2 AND reviewed = true AND length(text) <= 60
ORDER BY length(text) LIMIT $3
`

type GetGlossaryParams struct {
	LanguageCode string
	Locale       string
	Limit        int32
}

func (q *Queries) GetGlossary(ctx context.Context, arg GetGlossaryParams) ([]Phrase, error) {
	rows, err := q.db.Query(ctx, getGlossary, arg.LanguageCode, arg.Locale, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Phrase
	for rows.Next() {
		var p Phrase
		if err := rows.Scan(&p.PhraseID, &p.LanguageCode, &p.Text, &p.Translation, &p.Locale, &p.Notes, &p.Reviewed, &p.Origin, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// --- Similarity search ---

type SimilarPhrasesRow struct {
	Phrase   Phrase
	Distance float64
}

const similarPhrasesByVector = `
SELECT phrase_id, language_code, text, translation, locale, notes, reviewed, origin, created_at,
       embedding <=> $2 AS distance
FROM phrases
WHERE language_code = $1 AND embedding IS NOT NULL
ORDER BY embedding <=> $2 LIMIT $3
`

type SimilarPhrasesByVectorParams struct {
	LanguageCode string
	Embedding    pgvector.Vector
	Count        int32
}

func (q *Queries) SimilarPhrasesByVector(ctx context.Context, arg SimilarPhrasesByVectorParams) ([]SimilarPhrasesRow, error) {
	rows, err := q.db.Query(ctx, similarPhrasesByVector, arg.LanguageCode, arg.Embedding, arg.Count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSimilarRows(rows)
}

const similarPhrasesByID = `
SELECT p.phrase_id, p.language_code, p.text, p.translation, p.locale, p.notes, p.reviewed, p.origin, p.created_at,
       p.embedding <=> ref.embedding AS distance
FROM phrases p, (SELECT embedding FROM phrases WHERE phrase_id = $2 AND embedding IS NOT NULL) AS ref
WHERE p.language_code = $1 AND p.phrase_id != $2 AND p.embedding IS NOT NULL
ORDER BY p.embedding <=> ref.embedding LIMIT $3
`

type SimilarPhrasesByIDParams struct {
	LanguageCode string
	PhraseID     int64
	Count        int32
}

func (q *Queries) SimilarPhrasesByID(ctx context.Context, arg SimilarPhrasesByIDParams) ([]SimilarPhrasesRow, error) {
	rows, err := q.db.Query(ctx, similarPhrasesByID, arg.LanguageCode, arg.PhraseID, arg.Count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSimilarRows(rows)
}

func scanSimilarRows(rows pgx.Rows) ([]SimilarPhrasesRow, error) {
	var items []SimilarPhrasesRow
	for rows.Next() {
		var r SimilarPhrasesRow
		p := &r.Phrase
		if err := rows.Scan(&p.PhraseID, &p.LanguageCode, &p.Text, &p.Translation, &p.Locale, &p.Notes, &p.Reviewed, &p.Origin, &p.CreatedAt, &r.Distance); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// --- Lessons ---

type Lesson struct {
	LessonID     int64
	LanguageCode string
	Slug         string
	Title        string
	Level        string
	CreatedAt    pgtype.Timestamptz
	PhraseIDs    []int64
}

const upsertLesson = `
INSERT INTO lessons (language_code, slug, title, level)
VALUES ($1, $2, $3, $4)
ON CONFLICT (language_code, slug) DO UPDATE SET
  title = EXCLUDED.title,
  level = EXCLUDED.level
RETURNING lesson_id, language_code, slug, title, level, created_at
`

type UpsertLessonParams struct {
	LanguageCode string
	Slug         string
	Title        string
	Level        string
	PhraseIDs    []int64
}

// UpsertLesson writes the lesson row and replaces its phrase list.
// Run it inside a transaction to keep the two in step.
func (q *Queries) UpsertLesson(ctx context.Context, arg UpsertLessonParams) (Lesson, error) {
	row := q.db.QueryRow(ctx, upsertLesson, arg.LanguageCode, arg.Slug, arg.Title, arg.Level)
	var l Lesson
	if err := row.Scan(&l.LessonID, &l.LanguageCode, &l.Slug, &l.Title, &l.Level, &l.CreatedAt); err != nil {
		return Lesson{}, err
	}
	if _, err := q.db.Exec(ctx, "DELETE FROM lesson_phrases WHERE lesson_id = $1", l.LessonID); err != nil {
		return Lesson{}, err
	}
	for i, phraseID := range arg.PhraseIDs {
		if _, err := q.db.Exec(ctx,
			"INSERT INTO lesson_phrases (lesson_id, phrase_id, position) VALUES ($1, $2, $3)",
			l.LessonID, phraseID, i); err != nil {
			return Lesson{}, err
		}
	}
	l.PhraseIDs = arg.PhraseIDs
	return l, nil
}

const retrieveLesson = `
SELECT l.lesson_id, l.language_code, l.slug, l.title, l.level, l.created_at,
       coalesce(array_agg(lp.phrase_id ORDER BY lp.position) FILTER (WHERE lp.phrase_id IS NOT NULL), '{}')
FROM lessons l
LEFT JOIN lesson_phrases lp ON lp.lesson_id = l.lesson_id
WHERE l.language_code = $1 AND l.slug = $2
GROUP BY l.lesson_id
`

type RetrieveLessonParams struct {
	LanguageCode string
	Slug         string
}

func (q *Queries) RetrieveLesson(ctx context.Context, arg RetrieveLessonParams) (Lesson, error) {
	row := q.db.QueryRow(ctx, retrieveLesson, arg.LanguageCode, arg.Slug)
	var l Lesson
	err := row.Scan(&l.LessonID, &l.LanguageCode, &l.Slug, &l.Title, &l.Level, &l.CreatedAt, &l.PhraseIDs)
	return l, err
}

const getLessonsByLanguage = `
SELECT l.lesson_id, l.language_code, l.slug, l.title, l.level, l.created_at,
       coalesce(array_agg(lp.phrase_id ORDER BY lp.position) FILTER (WHERE lp.phrase_id IS NOT NULL), '{}')
FROM lessons l
LEFT JOIN lesson_phrases lp ON lp.lesson_id = l.lesson_id
WHERE l.language_code = $1
GROUP BY l.lesson_id
ORDER BY l.slug LIMIT $2 OFFSET $3
`

type GetLessonsByLanguageParams struct {
	LanguageCode string
	Limit        int32
	Offset       int32
}

func (q *Queries) GetLessonsByLanguage(ctx context.Context, arg GetLessonsByLanguageParams) ([]Lesson, error) {
	rows, err := q.db.Query(ctx, getLessonsByLanguage, arg.LanguageCode, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Lesson
	for rows.Next() {
		var l Lesson
		if err := rows.Scan(&l.LessonID, &l.LanguageCode, &l.Slug, &l.Title, &l.Level, &l.CreatedAt, &l.PhraseIDs); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

type DeleteLessonParams struct {
	LanguageCode string
	Slug         string
}

func (q *Queries) DeleteLesson(ctx context.Context, arg DeleteLessonParams) error {
	_, err := q.db.Exec(ctx, "DELETE FROM lessons WHERE language_code = $1 AND slug = $2", arg.LanguageCode, arg.Slug)
	return err
}

const getLessonPhrases = `
SELECT p.phrase_id, p.language_code, p.text, p.translation, p.locale, p.notes, p.reviewed, p.origin, p.created_at
FROM lesson_phrases lp
JOIN phrases p ON p.phrase_id = lp.phrase_id
WHERE lp.lesson_id = $1
ORDER BY lp.position
`

func (q *Queries) GetLessonPhrases(ctx context.Context, lessonID int64) ([]Phrase, error) {
	rows, err := q.db.Query(ctx, getLessonPhrases, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Phrase
	for rows.Next() {
		var p Phrase
		if err := rows.Scan(&p.PhraseID, &p.LanguageCode, &p.Text, &p.Translation, &p.Locale, &p.Notes, &p.Reviewed, &p.Origin, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// --- Admin ---

const getCorpusStats = `
SELECT
  (SELECT count(*) FROM languages),
  (SELECT count(*) FROM contributors),
  (SELECT count(*) FROM recordings),
  (SELECT count(*) FROM transcriptions),
  (SELECT count(*) FROM phrases),
  (SELECT count(*) FROM lessons)
`

type GetCorpusStatsRow struct {
	Languages      int64
	Contributors   int64
	Recordings     int64
	Transcriptions int64
	Phrases        int64
	Lessons        int64
}

func (q *Queries) GetCorpusStats(ctx context.Context) (GetCorpusStatsRow, error) {
	row := q.db.QueryRow(ctx, getCorpusStats)
	var s GetCorpusStatsRow
	err := row.Scan(&s.Languages, &s.Contributors, &s.Recordings, &s.Transcriptions, &s.Phrases, &s.Lessons)
	return s, err
}

const getPerLanguageCounts = `
SELECT l.code,
       (SELECT count(*) FROM recordings r WHERE r.language_code = l.code),
       (SELECT count(*) FROM phrases p WHERE p.language_code = l.code)
FROM languages l ORDER BY l.code
`

type GetPerLanguageCountsRow struct {
	Code       string
	Recordings int64
	Phrases    int64
}

func (q *Queries) GetPerLanguageCounts(ctx context.Context) ([]GetPerLanguageCountsRow, error) {
	rows, err := q.db.Query(ctx, getPerLanguageCounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetPerLanguageCountsRow
	for rows.Next() {
		var r GetPerLanguageCountsRow
		if err := rows.Scan(&r.Code, &r.Recordings, &r.Phrases); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// DeleteAllRecords removes all rows from all tables.
func (q *Queries) DeleteAllRecords(ctx context.Context) error {
	_, err := q.db.Exec(ctx, "TRUNCATE languages, contributors, recordings, transcriptions, phrases, lessons, lesson_phrases CASCADE")
	return err
}

// ResetAllSerials resets the serial counters of all tables.
func (q *Queries) ResetAllSerials(ctx context.Context) error {
	if _, err := q.db.Exec(ctx, "ALTER SEQUENCE phrases_phrase_id_seq RESTART WITH 1"); err != nil {
		return err
	}
	_, err := q.db.Exec(ctx, "ALTER SEQUENCE lessons_lesson_id_seq RESTART WITH 1")
	return err
}
