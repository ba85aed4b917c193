/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	stderrors "errors"

	"github.com/Dykam/gangwars/command"
)

func asUsage(err error, target **command.UsageError) bool {
	return stderrors.As(err, target)
}
