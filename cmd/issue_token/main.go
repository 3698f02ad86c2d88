// issue_token emite un JWT para operar la API de asignación (integraciones y soporte).
//
// Uso: go run ./cmd/issue_token <user-id> <rol> [minutos]
// Roles: admin, bodeguero, comprador. Lee JWT_SECRET, JWT_ISSUER y JWT_EXPIRATION_MINUTES de la configuración.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/procurement-allocation/pkg/config"
	"github.com/jhoicas/procurement-allocation/pkg/jwt"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "uso: issue_token <user-id> <rol> [minutos]")
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	if !cfg.JWT.Enabled() {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no está definido")
		os.Exit(1)
	}

	userID, role := os.Args[1], os.Args[2]
	switch role {
	case jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleComprador:
	default:
		fmt.Fprintf(os.Stderr, "Rol desconocido: %q\n", role)
		os.Exit(2)
	}
	minutes := cfg.JWT.Expiration
	if len(os.Args) > 3 {
		if minutes, err = strconv.Atoi(os.Args[3]); err != nil || minutes <= 0 {
			fmt.Fprintf(os.Stderr, "Minutos inválidos: %q\n", os.Args[3])
			os.Exit(2)
		}
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, userID, role, cfg.JWT.Issuer, minutes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
