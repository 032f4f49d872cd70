// Package services holds the question-answering core.
//
// IndexLifecycle owns the vector index: it restores a persisted snapshot or
// builds one from the corpus, and reports its progress as an IndexState.
// AnswerService turns a question into bullets and sources once that index is
// Ready. SettingsService reads configuration into domain.AppSettings.
package services
