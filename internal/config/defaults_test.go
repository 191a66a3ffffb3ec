package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultDataRoot, cfg.Data.Root)
	assert.Equal(t, DefaultIDColumn, cfg.Data.IDColumn)
	assert.Equal(t, DefaultDockingBinary, cfg.Docking.Binary)
	assert.Equal(t, 1, cfg.Docking.Concurrency)
	assert.Equal(t, time.Duration(0), cfg.Docking.JobTimeout)
	assert.Equal(t, ValidatorSyntax, cfg.Preparation.Validator)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Docking.Concurrency = 8
	cfg.Docking.LigandExt = "mol2"
	cfg.Data.IDColumn = "id"
	ApplyDefaults(cfg)

	assert.Equal(t, 8, cfg.Docking.Concurrency)
	assert.Equal(t, "mol2", cfg.Docking.LigandExt)
	assert.Equal(t, "id", cfg.Data.IDColumn)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

//Personal.AI order the ending
