package http

import (
	"net/http"

	"findash/internal/log"
	"findash/internal/snapshot"
)

// The snapshot handlers are generic over the record type so the finance and
// dashboard variants share one implementation.

func getSnapshot[T any](store *snapshot.Store[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := store.Get(r.Context())
		if err != nil {
			writeError(w, r, log.OpGet, err)
			return
		}
		writeJSON(w, r, http.StatusOK, v)
	}
}

// putSnapshot replaces the whole record with the request body.
func putSnapshot[T any](store *snapshot.Store[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var v T
		if err := DecodeJSON(w, r, &v); err != nil {
			writeError(w, r, log.OpSave, err)
			return
		}
		if err := store.Save(r.Context(), v); err != nil {
			writeError(w, r, log.OpSave, err)
			return
		}
		writeJSON(w, r, http.StatusOK, v)
	}
}

// patchSnapshot decodes the body as P, whose fields mirror T's top-level keys,
// and merges it. Present keys replace the stored section wholesale.
func patchSnapshot[T, P any](store *snapshot.Store[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch P
		if err := DecodeJSON(w, r, &patch); err != nil {
			writeError(w, r, log.OpUpdate, err)
			return
		}
		v, err := store.Update(r.Context(), patch)
		if err != nil {
			writeError(w, r, log.OpUpdate, err)
			return
		}
		writeJSON(w, r, http.StatusOK, v)
	}
}

func resetSnapshot[T any](store *snapshot.Store[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := store.Reset(r.Context())
		if err != nil {
			writeError(w, r, log.OpReset, err)
			return
		}
		writeJSON(w, r, http.StatusOK, v)
	}
}

// clearSnapshot removes the stored record; the next read reseeds defaults.
func clearSnapshot[T any](store *snapshot.Store[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Clear(r.Context()); err != nil {
			writeError(w, r, log.OpClear, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
