package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestModule_GraphIsComplete(t *testing.T) {
	require.NoError(t, fx.ValidateApp(Module, fx.NopLogger))
	require.NoError(t, fx.ValidateApp(Services, fx.NopLogger))
}
