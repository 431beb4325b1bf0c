package dto

import (
	"shopbooks/internal/domain/backup"
	"shopbooks/internal/store"
)

// BackupRequest selects what to snapshot.
type BackupRequest struct {
	Type string `form:"type"`
}

// BackupResponse is a full backup document.
type BackupResponse struct {
	Metadata backup.Metadata           `json:"metadata"`
	Data     map[string][]store.Record `json:"data"`
}

// FromBackupDocument creates BackupResponse from a backup document.
func FromBackupDocument(d backup.Document) BackupResponse {
	return BackupResponse{Metadata: d.Metadata, Data: d.Data}
}

// RestoreRequest applies a backup document.
type RestoreRequest struct {
	Mode     string                    `json:"mode"`
	Metadata backup.Metadata           `json:"metadata"`
	Data     map[string][]store.Record `json:"data" binding:"required"`
}

// ToDocument converts the request to a backup document.
func (r RestoreRequest) ToDocument() backup.Document {
	return backup.Document{Metadata: r.Metadata, Data: r.Data}
}

// RestoreResponse summarizes a restore.
type RestoreResponse struct {
	Collections int      `json:"collections"`
	Inserted    int      `json:"inserted"`
	Skipped     int      `json:"skipped"`
	Warnings    []string `json:"warnings,omitempty"`
}

// FromRestoreResult creates RestoreResponse from a restore result.
func FromRestoreResult(r backup.Result) RestoreResponse {
	return RestoreResponse{
		Collections: r.Collections,
		Inserted:    r.Inserted,
		Skipped:     r.Skipped,
		Warnings:    r.Warnings,
	}
}

// BackupHistoryResponse is the rolling backup history.
type BackupHistoryResponse struct {
	LastBackup string                `json:"lastBackup,omitempty"`
	History    []backup.HistoryEntry `json:"history"`
}
