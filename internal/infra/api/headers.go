package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/welldatalabs/wellsync/internal/core/domain"
)

// Keys of the JobHeader JSON object and their normalized attribute names.
var wireAttrNames = map[string]string{
	"api":                      "api",
	"assetGroup":               "asset_group",
	"bottomholeLatitude":       "bottomhole_latitude",
	"bottomholeLongitude":      "bottomhole_longitude",
	"county":                   "county",
	"fleet":                    "fleet",
	"fluidSystem":              "fluid_system",
	"formation":                "formation",
	"fracSystem":               "frac_system",
	"jobId":                    "job_id",
	"jobStartDate":             "job_start_date",
	"jobType":                  "job_type",
	"lateralLength":            "lateral_length",
	"lateralLengthUnitText":    "lateral_length_unit_text",
	"legalDescription":         "legal_description",
	"measuredDepth":            "measured_depth",
	"measuredDepthUnitText":    "measured_depth_unit_text",
	"modifiedUtc":              "modified_utc",
	"operator":                 "operator",
	"padName":                  "pad_name",
	"plannedStages":            "planned_stages",
	"serviceCompany":           "service_company",
	"stageCount":               "stage_count",
	"state":                    "state",
	"surfaceLatitude":          "surface_latitude",
	"surfaceLongitude":         "surface_longitude",
	"verticalDepth":            "vertical_depth",
	"verticalDepthUnitText":    "vertical_depth_unit_text",
	"wellId":                   "well_id",
	"wellName":                 "well_name",
}

const (
	wireRecordIDKey = "jobId"
	wireModifiedKey = "modifiedUtc"
	wireLegalKey    = "legalDescription"

	// Timestamps on the headers endpoint carry no zone suffix and are UTC.
	wireTimeLayout = "2006-01-02T15:04:05"
)

// decodeHeaders turns the headers endpoint's JSON list into header
// records. A missing record identifier is a wrong-shape payload and fails
// the whole decode; a missing or malformed modified timestamp leaves the
// record's ModifiedAt zero, which the planner treats as always changed.
func decodeHeaders(body []byte) ([]domain.HeaderRecord, error) {
	var wire []map[string]any
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode job headers: %w", err)
	}

	records := make([]domain.HeaderRecord, 0, len(wire))
	for i, obj := range wire {
		id, ok := obj[wireRecordIDKey].(string)
		if !ok || id == "" {
			return nil, fmt.Errorf("job header %d has no %s", i, wireRecordIDKey)
		}

		rec := domain.HeaderRecord{
			RecordID: id,
			Attrs:    make(map[string]string, len(obj)),
		}
		if raw, ok := obj[wireModifiedKey].(string); ok {
			if ts, err := time.ParseInLocation(wireTimeLayout, raw, time.UTC); err == nil {
				rec.ModifiedAt = ts
			}
		}

		for key, value := range obj {
			name, ok := wireAttrNames[key]
			if !ok {
				// Unknown columns ride along under their wire name so new
				// API fields surface instead of vanishing.
				name = key
			}
			rec.Attrs[name] = stringifyAttr(key, value)
		}
		records = append(records, rec)
	}
	return records, nil
}

func stringifyAttr(key string, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		if key == wireLegalKey {
			// The API double-quotes legal descriptions.
			return strings.ReplaceAll(v, `"`, "")
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
