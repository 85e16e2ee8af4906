// hashpw genera el hash bcrypt de la contraseña del operador para la
// variable de entorno ADMIN_PASSWORD_HASH.
//
// Uso: go run ./cmd/hashpw <contraseña>
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "uso: hashpw <contraseña>")
		os.Exit(1)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generar hash:", err)
		os.Exit(1)
	}
	fmt.Println(string(hash))
}
