// issue_token firma un Bearer token con JWT_SECRET para operar la API en desarrollo.
// La emisión de tokens de producción vive en el proveedor de identidad.
//
// Uso: go run ./cmd/issue_token -user u1 -role bodeguero -branch main [-minutes 60]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/stock-engine/pkg/config"
	"github.com/jhoicas/stock-engine/pkg/jwt"
)

func main() {
	user := flag.String("user", "", "id del usuario (actor de la bitácora)")
	role := flag.String("role", jwt.RoleVendedor, "admin | bodeguero | vendedor")
	branch := flag.String("branch", "", "sucursal asignada; vacío = sin alcance de sucursal")
	minutes := flag.Int("minutes", 0, "vigencia en minutos; por defecto JWT_EXPIRATION_MINUTES")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if *user == "" {
		fmt.Fprintln(os.Stderr, "Falta -user")
		os.Exit(2)
	}
	switch *role {
	case jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor:
	default:
		fmt.Fprintf(os.Stderr, "Rol %q no reconocido\n", *role)
		os.Exit(2)
	}
	if *minutes <= 0 {
		*minutes = cfg.JWT.Expiration
	}

	token, err := jwt.Generate(cfg.JWT.Secret, *user, *branch, *role, cfg.JWT.Issuer, *minutes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
