// Copyright (c) 2018, Eugene Ponizovsky, <ponizovsky@gmail.com>. All rights
// reserved. Use of this source code is governed by a MIT License that can
// be found in the LICENSE file.

/*
Package modconf loads hierarchical configuration for an application and its
nested modules. Every module keeps configuration files in its own "config"
directory next to the module manifest (package.json, manifest.json,
manifest.yaml, manifest.yml or manifest.toml), that provides module name and
version.

Files are selected by environment. For APP_ENV=production, HOSTNAME=www and
APP_INSTANCE=1 files are loaded in the following order, later files override
earlier ones:

	default, default-1, production, production-1, www, www-1,
	www-production, www-production-1, local, local-1, local-production,
	local-production-1

Supported extensions are .json, .json5, .hjson, .toml, .yaml, .yml and
.properties.

Module configuration is taken from the key named after the module and from
the key with module version ("mymodule@1.2.0"). The "common" key holds
configuration shared by all modules. The application can override module
configuration with files from APP_CONFIG_DIR directory and with inline
configuration in APP_CONFIG variable (HJSON). Environment variables can be
passed as command-line arguments too:

	myapp --APP_ENV=production --APP_CONFIG='{mymodule: {port: 8080}}'

Example:

	package main

	import (
	  "fmt"

	  "github.com/iph0/modconf"
	)

	type dbConfig struct {
	  Host string `conf:"host"`
	  Port int    `conf:"port"`
	}

	func main() {
	  err := modconf.Init()

	  if err != nil {
	    fmt.Println("Loading failed:", err)
	    return
	  }

	  rc, err := modconf.Dir("/srv/myapp/node_modules/mymodule")

	  if err != nil {
	    fmt.Println("Loading failed:", err)
	    return
	  }

	  var db dbConfig
	  err = rc.Config.Decode(&db)

	  if err != nil {
	    fmt.Println("Decoding failed:", err)
	    return
	  }

	  fmt.Println(db.Host, rc.Get("common.ENV"))
	}

String values with "nacl:" prefix are decrypted with the password from
VAULT_NACL or VAULT_NACL_FILE variables (see vaultconf package).
*/
package modconf
