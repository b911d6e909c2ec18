// Package schemas содержит JSON-схемы тел запросов, которые принимает сервис.
package schemas

import "embed"

//go:embed listings/*.json
var FS embed.FS
