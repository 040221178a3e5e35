package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_GatherSucceeds(t *testing.T) {
	families, err := Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, fam := range families {
		names[fam.GetName()] = true
	}

	for _, want := range []string{
		"bep_streams_total",
		"bep_active_streams",
		"bep_stream_errors_total",
		"bep_message_handler_errors_total",
		"db_exec_total",
		"db_exec_grouped_total",
		"db_blocking_inflight",
		"db_exec_duration_seconds",
	} {
		require.True(t, names[want], "expected metric %q to be registered", want)
	}
}

func TestStreamErrorsTotal_LabeledByCode(t *testing.T) {
	StreamErrorsTotal.WithLabelValues("Aborted").Inc()
	families, err := Registry.Gather()
	require.NoError(t, err)

	var found bool
	for _, fam := range families {
		if fam.GetName() != "bep_stream_errors_total" {
			continue
		}
		for _, m := range fam.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "code" && l.GetValue() == "Aborted" {
					found = true
				}
			}
		}
	}
	require.True(t, found, "expected a bep_stream_errors_total series labeled code=Aborted")
}
