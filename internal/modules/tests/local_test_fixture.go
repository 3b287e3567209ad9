package tests

import (
	"context"
	"os"

	tc "github.com/testcontainers/testcontainers-go/modules/compose"
	"github.com/testcontainers/testcontainers-go/wait"
)

// LocalTestFixture brings up the docker-compose infrastructure (Redis) the
// black-box API suite runs against. Set SKIP_INFRASTRUCTURE=true when the
// services are already running.
type LocalTestFixture struct {
	compose tc.ComposeStack
}

func NewLocalTestFixture(dockerComposePath string, strategies map[string]wait.Strategy) (LocalTestFixture, error) {
	compose, err := tc.NewDockerCompose(dockerComposePath)
	if err != nil {
		return LocalTestFixture{}, err
	}

	var stack tc.ComposeStack = compose
	for serviceName, strategy := range strategies {
		stack = stack.WaitForService(serviceName, strategy)
	}

	return LocalTestFixture{compose: stack}, nil
}

func (f *LocalTestFixture) Start(ctx context.Context) error {
	if skip := os.Getenv("SKIP_INFRASTRUCTURE"); skip == "true" {
		return nil
	}

	return f.compose.Up(ctx)
}

func (f *LocalTestFixture) Stop(ctx context.Context) error {
	if skip := os.Getenv("SKIP_INFRASTRUCTURE"); skip == "true" {
		return nil
	}

	return f.compose.Down(ctx)
}
