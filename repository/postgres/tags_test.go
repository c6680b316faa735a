package postgres

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow plays back a prepared column tuple through the scanner interface.
type fakeRow struct {
	values []interface{}
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: expected %d destinations, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		if r.values[i] == nil {
			continue
		}
		dv := reflect.ValueOf(d).Elem()
		dv.Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

func TestMarshalStringsEmptyBindsNull(t *testing.T) {
	assert.Nil(t, marshalStrings(nil))
	assert.Nil(t, marshalStrings([]string{}))
}

func TestScanTaskRestoresStoredTags(t *testing.T) {
	tags := []string{"prazo", "audiencia"}
	stored := marshalStrings(tags)
	require.NotNil(t, stored)

	now := time.Now().UTC()
	row := fakeRow{values: []interface{}{
		"task-1", "user-1", "Protocolar recurso", "", "fatal_deadline", "high", "pending",
		"", "", "", nil, nil, "",
		130, "warning", stored, "", "", "",
		now, now,
	}}

	task, err := scanTask(row)
	require.NoError(t, err)
	assert.Equal(t, tags, task.Tags)
}

func TestScanTaskRejectsMalformedTags(t *testing.T) {
	now := time.Now().UTC()
	row := fakeRow{values: []interface{}{
		"task-1", "user-1", "Protocolar recurso", "", "fatal_deadline", "high", "pending",
		"", "", "", nil, nil, "",
		130, "warning", []byte(`{"prazo"`), "", "", "",
		now, now,
	}}

	_, err := scanTask(row)
	assert.Error(t, err)
}

func TestScanCaseRestoresStoredTags(t *testing.T) {
	tags := []string{"trabalhista"}
	now := time.Now().UTC()
	row := fakeRow{values: []interface{}{
		"case-1", "user-1", "client-1", "Reclamacao trabalhista", "", "",
		"in_progress", "medium", "", marshalStrings(tags),
		now, now,
	}}

	c, err := scanCase(row)
	require.NoError(t, err)
	assert.Equal(t, tags, c.Tags)
}
