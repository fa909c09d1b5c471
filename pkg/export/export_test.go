package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLedgerWriterRenderPenalties(t *testing.T) {
	writer := NewLedgerWriter()
	out, err := writer.RenderPenalties([]PenaltyRow{
		{
			Code:          "PEN-2026-A1B2C3",
			StudentName:   "Abebe Bikila",
			StudentCode:   "AAU-1001",
			ViolationType: "noise",
			DurationDays:  14,
			StartDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			EndDate:       time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
			Status:        "active",
		},
		{
			Code:          "PEN-2026-D4E5F6",
			StudentName:   "Tirunesh Dibaba",
			ViolationType: "curfew",
			DurationDays:  7,
			StartDate:     time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			EndDate:       time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC),
			Status:        "active",
		},
	})
	require.NoError(t, err)

	want := "penalty_code,student_name,student_code,violation_type,duration_days,start_date,end_date,status\n" +
		"PEN-2026-A1B2C3,Abebe Bikila,AAU-1001,noise,14,2026-09-01,2026-09-15,active\n" +
		"PEN-2026-D4E5F6,Tirunesh Dibaba,,curfew,7,2026-09-02,2026-09-09,active\n"
	require.Equal(t, want, string(out))
}

func TestLedgerWriterEmptyLedger(t *testing.T) {
	writer := NewLedgerWriter()
	out, err := writer.RenderPenalties(nil)
	require.NoError(t, err)
	require.Equal(t, "penalty_code,student_name,student_code,violation_type,duration_days,start_date,end_date,status\n", string(out))
}

func TestSlipRendererRender(t *testing.T) {
	renderer := NewSlipRenderer()
	out, err := renderer.Render(SlipData{
		FormCode:       "LAU-2026-A1B2C3",
		StudentName:    "Abebe Bikila",
		StudentCode:    "AAU-1001",
		ItemCount:      4,
		ItemList:       "2 shirts, 2 trousers",
		Status:         "Pending Proctor Approval",
		SubmissionDate: time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC),
		RedeemURL:      "https://dorms.aau.edu.et/api/v1/public/laundry/LAU-2026-A1B2C3/taken",
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestSlipRendererRequiresFormCode(t *testing.T) {
	renderer := NewSlipRenderer()
	_, err := renderer.Render(SlipData{})
	require.Error(t, err)
}
