package config

import "github.com/joho/godotenv"

// LoadEnv loads variables from a .env file in the working directory without
// overriding variables already set. The error satisfies os.IsNotExist when no
// file exists.
func LoadEnv(filenames ...string) error {
	return godotenv.Load(filenames...)
}
