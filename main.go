package main

//go:generate swag init --parseDependency

import "github.com/satheeshds/invoicing/cmd"

// @title           Invoicing API
// @version         1.0.0
// @description     API for managing billing companies, customers, products, invoices and creator settlements.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.basic  BasicAuth

func main() {
	cmd.Execute()
}
