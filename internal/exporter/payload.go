package exporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"indicatorcli/internal/config"
	apperrors "indicatorcli/internal/errors"
	"indicatorcli/internal/series"
)

// Indicator is the indicator definition stored alongside uploaded data.
type Indicator struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Unit           string `json:"unit"`
	Source         string `json:"source"`
	SourceURL      string `json:"sourceUrl"`
	Frequency      string `json:"frequency"`
	HigherIsBetter bool   `json:"higherIsBetter"`
	SeriesID       string `json:"seriesId"`
	Transform      string `json:"transform"`
}

// IndicatorFromConfig converts the configured definition.
func IndicatorFromConfig(c config.IndicatorConfig) Indicator {
	return Indicator{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Unit:           c.Unit,
		Source:         c.Source,
		SourceURL:      c.SourceURL,
		Frequency:      c.Frequency,
		HigherIsBetter: c.HigherIsBetter,
		SeriesID:       c.SeriesID,
		Transform:      c.Transform,
	}
}

// UploadPayload is the document the dashboard reads for a locally uploaded
// indicator.
type UploadPayload struct {
	Indicator Indicator       `json:"indicator"`
	Data      []series.Record `json:"data"`
}

// SourcePreference selects where the dashboard takes an indicator's data from.
type SourcePreference struct {
	UseUploadedData bool `json:"useUploadedData"`
}

// PayloadFiles names the files written by WriteUploadPayload.
type PayloadFiles struct {
	Payload     string
	Preferences string
}

// PayloadFileNames returns the payload and preference file paths for
// indicator id under dir.
func PayloadFileNames(dir, id string) PayloadFiles {
	return PayloadFiles{
		Payload:     filepath.Join(dir, config.UploadedKeyPrefix+id+".json"),
		Preferences: filepath.Join(dir, config.PreferencesKey+".json"),
	}
}

// WriteUploadPayload writes the compact indicator/data payload for
// indicator and marks it as uploaded in the preference file. Entries for
// other indicators already in the preference file are kept.
func WriteUploadPayload(dir string, indicator Indicator, records []series.Record) (PayloadFiles, error) {
	files := PayloadFileNames(dir, indicator.ID)

	if records == nil {
		records = []series.Record{}
	}
	payload, err := marshalJSON(UploadPayload{Indicator: indicator, Data: records}, "")
	if err != nil {
		return files, fmt.Errorf("failed to encode upload payload: %w", err)
	}
	if err := writeFileAtomic(files.Payload, payload); err != nil {
		return files, err
	}

	prefs, err := readPreferences(files.Preferences)
	if err != nil {
		return files, err
	}
	prefs[indicator.ID], err = json.Marshal(SourcePreference{UseUploadedData: true})
	if err != nil {
		return files, fmt.Errorf("failed to encode preference: %w", err)
	}

	data, err := marshalJSON(prefs, jsonIndent)
	if err != nil {
		return files, fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := writeFileAtomic(files.Preferences, data); err != nil {
		return files, err
	}

	slog.Info("Wrote upload payload",
		slog.String("indicator", indicator.ID),
		slog.String("payload", files.Payload),
		slog.String("preferences", files.Preferences),
		slog.Int("record_count", len(records)))

	return files, nil
}

// readPreferences loads the preference file, or an empty set when it does
// not exist yet. Values are kept raw so unknown entries round-trip.
func readPreferences(path string) (map[string]json.RawMessage, error) {
	prefs := make(map[string]json.RawMessage)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return prefs, nil
	}
	if err != nil {
		return nil, storageError(path, err)
	}

	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("preference file %s is not a JSON object", path), err).
			WithContext("path", path)
	}
	if prefs == nil {
		prefs = make(map[string]json.RawMessage)
	}
	return prefs, nil
}
