package telemetry

import (
	"fmt"
	"os"
	"strings"

	"github.com/antonellabarisic/mmuav-gazebo/control"
)

// statusHeader fixes the CSV column order.
var statusHeader = []string{
	"t",
	"f_u", "mu_x", "mu_y", "mu_z",
	"x", "y", "z", "xd", "yd", "zd",
	"ex_x", "ex_y", "ex_z", "ev_x", "ev_y", "ev_z",
	"er_x", "er_y", "er_z", "ew_x", "ew_y", "ew_z",
	"roll", "pitch", "yaw", "roll_d", "pitch_d", "yaw_d",
	"w_x", "w_y", "w_z", "wd_x", "wd_y", "wd_z",
	"ad_x", "ad_y", "ad_z",
	"rotor_1", "rotor_2", "rotor_3", "rotor_4",
	"mm_1", "mm_2", "mm_3", "mm_4",
	"cm_x", "cm_y", "cm_z",
}

func statusRow(st control.Status) []float64 {
	return []float64{
		st.T,
		st.FU, st.MU1, st.MU2, st.MU3,
		st.X1, st.X2, st.X3, st.XD1, st.XD2, st.XD3,
		st.EX1, st.EX2, st.EX3, st.EV1, st.EV2, st.EV3,
		st.ER1, st.ER2, st.ER3, st.EW1, st.EW2, st.EW3,
		st.Roll, st.Pitch, st.Yaw, st.RollD, st.PitchD, st.YawD,
		st.W1, st.W2, st.W3, st.WD1, st.WD2, st.WD3,
		st.AD1, st.AD2, st.AD3,
		st.Rotor1, st.Rotor2, st.Rotor3, st.Rotor4,
		st.MassOffsets[0], st.MassOffsets[1], st.MassOffsets[2], st.MassOffsets[3],
		st.CM1, st.CM2, st.CM3,
	}
}

// CSVLogger captures status records to a file, one row per control cycle.
type CSVLogger struct {
	f      *os.File
	rowFmt string
}

// NewCSVLogger creates the capture file and writes the header row.
func NewCSVLogger(filename string) (*CSVLogger, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	fmt.Fprint(f, strings.Join(statusHeader, ","), "\n")
	s := strings.Repeat("%f,", len(statusHeader))
	return &CSVLogger{
		f:      f,
		rowFmt: s[:len(s)-1] + "\n",
	}, nil
}

// Log appends one status record.
func (l *CSVLogger) Log(st control.Status) {
	row := statusRow(st)
	vals := make([]interface{}, len(row))
	for i, v := range row {
		vals[i] = v
	}
	fmt.Fprintf(l.f, l.rowFmt, vals...)
}

func (l *CSVLogger) Close() error {
	return l.f.Close()
}
