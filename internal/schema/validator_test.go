package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSections() map[string]map[string]string {
	return map[string]map[string]string{
		"workflow": {
			"trigger-name": "170817",
			"trigger-time": "1187008882",
			"start-time":   "1187008877",
			"end-time":     "1187008887",
			"ifos":         "H1 L1",
		},
		"executables": {
			"plot_chisq_veto": "/usr/bin/plot_chisq_veto",
		},
		"plot_chisq_veto": {
			"x-lims": "0,50",
		},
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	assert.NoError(t, v.ValidateConfig(validSections()))
}

func TestValidateConfig_MissingWorkflowSection(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	sections := validSections()
	delete(sections, "workflow")
	assert.Error(t, v.ValidateConfig(sections))
}

func TestValidateConfig_MissingTriggerName(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	sections := validSections()
	delete(sections["workflow"], "trigger-name")
	assert.Error(t, v.ValidateConfig(sections))
}

func TestValidateConfig_EmptyExecutables(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	sections := validSections()
	sections["executables"] = map[string]string{}
	assert.Error(t, v.ValidateConfig(sections))
}
