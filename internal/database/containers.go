// containers.go
//
// An apartment availability sync and alerting service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of aptwatch.
// aptwatch is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// aptwatch is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with aptwatch.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/localnerve/aptwatch/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StartDatabaseContainer starts a disposable database container for the
// configured dialect and returns it along with the mapped host and port.
// Used by the testcontainers command and integration tests.
func StartDatabaseContainer(ctx context.Context, cfg *config.Config) (testcontainers.Container, string, string, error) {
	tcpPort, err := nat.NewPort("tcp", cfg.DBPort)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to create DB port: %w", err)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImage(cfg.DBType),
			ExposedPorts: []string{string(tcpPort)},
			Env:          dbInitEnvMap(cfg),
			WaitingFor:   wait.ForListeningPort(tcpPort).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to start database container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, "", "", fmt.Errorf("failed to resolve container host: %w", err)
	}
	mappedPort, err := container.MappedPort(ctx, tcpPort)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, "", "", fmt.Errorf("failed to resolve container port: %w", err)
	}

	return container, host, mappedPort.Port(), nil
}

func dbImage(dbType string) string {
	if image := os.Getenv("DB_IMAGE"); image != "" {
		return image
	}
	switch dbType {
	case "postgres":
		return "postgres:17"
	default:
		return "mysql:8.4"
	}
}

func dbInitEnvMap(cfg *config.Config) map[string]string {
	switch cfg.DBType {
	case "postgres":
		return map[string]string{
			"POSTGRES_DB":       cfg.DBDatabase,
			"POSTGRES_USER":     cfg.DBUser,
			"POSTGRES_PASSWORD": cfg.DBPassword,
		}
	default:
		return map[string]string{
			"MYSQL_DATABASE":      cfg.DBDatabase,
			"MYSQL_USER":          cfg.DBUser,
			"MYSQL_PASSWORD":      cfg.DBPassword,
			"MYSQL_ROOT_PASSWORD": cfg.DBPassword,
		}
	}
}
