package directory

import (
	"github.com/m04kA/SMC-ClinicSlots/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
