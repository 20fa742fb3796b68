package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/xeniter/romygo/core/history"
)

// WriteJSON writes history records to w in JSON format.
func WriteJSON(w io.Writer, recs []history.LogRecord) error {
	enc := json.NewEncoder(w)
	return enc.Encode(recs)
}

// WriteCSV writes history records to w in CSV format.
func WriteCSV(w io.Writer, recs []history.LogRecord) error {
	cw := csv.NewWriter(w)
	header := []string{"timestamp", "robot_id", "event", "from", "to", "battery_level", "error_code", "command", "parameter", "ok", "detail"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range recs {
		rec := []string{
			r.Timestamp.Format(time.RFC3339),
			r.RobotID,
			r.Event,
			r.From,
			r.To,
			strconv.Itoa(r.BatteryLevel),
			strconv.Itoa(r.ErrorCode),
			r.Command,
			strconv.Itoa(r.Parameter),
			strconv.FormatBool(r.OK),
			r.Detail,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
