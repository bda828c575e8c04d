package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/deal-cli/internal/mortgage"
	"github.com/sells-group/deal-cli/internal/refdata"
)

func TestMoneyAndPercent(t *testing.T) {
	assert.Equal(t, "1,234,567.89", money(1234567.891))
	assert.Equal(t, "-9,820.68", money(-9820.68))
	assert.Equal(t, "5.36%", pct(0.0536))
	assert.Equal(t, "n/a", optPct(nil))
	assert.Equal(t, "n/a", optRatio(nil))
	v := 1.25
	assert.Equal(t, "1.25", optRatio(&v))
}

func TestFormatSchedule(t *testing.T) {
	schedule := mortgage.Schedule(120_000, 0.03, 2)

	var buf bytes.Buffer
	formatSchedule(&buf, schedule, false)
	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	assert.Equal(t, 1+24, lines)
	assert.Contains(t, buf.String(), "PERIOD")

	buf.Reset()
	formatSchedule(&buf, schedule, true)
	lines = bytes.Count(buf.Bytes(), []byte("\n"))
	assert.Equal(t, 1+2, lines)
	assert.Contains(t, buf.String(), "YEAR")
}

func TestFormatCompliance(t *testing.T) {
	tables, err := refdata.Default()
	require.NoError(t, err)

	c, err := tables.CheckCompliance("75001", 2000, 60)
	require.NoError(t, err)

	var buf bytes.Buffer
	formatCompliance(&buf, "75001", c)
	out := buf.String()
	assert.Contains(t, out, "legal cap")
	assert.Contains(t, out, "33.33")
	assert.Contains(t, out, "Compliant:")
	assert.Contains(t, out, "true")
}

func TestFormatReport_Sections(t *testing.T) {
	r := sampleReport(t)
	r.Warnings = []string{"something odd"}

	var buf bytes.Buffer
	formatReport(&buf, r, false)
	out := buf.String()
	assert.Contains(t, out, "Deal:")
	assert.Contains(t, out, "sample")
	assert.Contains(t, out, "Tax regime:")
	assert.Contains(t, out, "Warning:")
	assert.NotContains(t, out, "YEAR")
}
