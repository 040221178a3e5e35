package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blade-bes/besd/internal/buildeventproto/buildeventstream"
)

func TestOptionsHandler_UnstructuredCommandLine(t *testing.T) {
	fs := newFakeStore()
	h := OptionsHandler{}

	event := &buildeventstream.BuildEvent{
		Payload: &buildeventstream.Payload{
			UnstructuredCommandLine: &buildeventstream.UnstructuredCommandLine{Args: []string{"build", "//..."}},
		},
	}

	require.NoError(t, h.HandleEvent(context.Background(), fs, "inv-1", event))
	require.Equal(t, []string{"build", "//..."}, fs.options.Unstructured)
}

func TestOptionsHandler_OptionsParsed(t *testing.T) {
	fs := newFakeStore()
	h := OptionsHandler{}

	event := &buildeventstream.BuildEvent{
		Payload: &buildeventstream.Payload{
			OptionsParsed: &buildeventstream.OptionsParsed{
				StartupOptions:         []string{"--max_idle_secs=1"},
				ExplicitStartupOptions: []string{"--max_idle_secs=1"},
				CmdLine:                []string{"--config=ci"},
				ExplicitCmdLine:        []string{"--config=ci"},
			},
		},
	}

	require.NoError(t, h.HandleEvent(context.Background(), fs, "inv-1", event))
	require.Equal(t, []string{"--max_idle_secs=1"}, fs.options.Startup)
	require.Equal(t, []string{"--config=ci"}, fs.options.CmdLine)
}

func TestOptionsHandler_BuildMetadata(t *testing.T) {
	fs := newFakeStore()
	h := OptionsHandler{}

	event := &buildeventstream.BuildEvent{
		Payload: &buildeventstream.Payload{
			BuildMetadata: &buildeventstream.BuildMetadata{
				Metadata: map[string]string{"ROLE": "CI"},
			},
		},
	}

	require.NoError(t, h.HandleEvent(context.Background(), fs, "inv-1", event))
	require.Equal(t, "CI", fs.options.BuildMetadata["ROLE"])
}

func TestOptionsHandler_IgnoresUnrelatedPayload(t *testing.T) {
	fs := newFakeStore()
	h := OptionsHandler{}
	require.NoError(t, h.HandleEvent(context.Background(), fs, "inv-1", &buildeventstream.BuildEvent{
		Payload: &buildeventstream.Payload{Started: &buildeventstream.Started{}},
	}))
	require.Empty(t, fs.options.Unstructured)
}
