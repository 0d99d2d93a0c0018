package store

// SQL query constants. All SQL lives here — PostgresStore methods
// reference these constants.

const (
	queryInsertSavedSearch = `
		INSERT INTO saved_searches (query, sources)
		VALUES (@query, @sources)
		RETURNING id, created_at`

	queryGetSavedSearch = `
		SELECT id, query, sources, created_at
		FROM saved_searches
		WHERE id = $1`

	queryListSavedSearches = `
		SELECT id, query, sources, created_at
		FROM saved_searches
		ORDER BY created_at DESC`

	queryDeleteSavedSearch = `
		DELETE FROM saved_searches
		WHERE id = $1`
)
