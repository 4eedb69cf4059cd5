package geolocation

// Driver - низкоуровневая платформенная возможность геолокации: push-поток
// из fix и ошибок. Поверх него Source строит одиночный запрос и подписку.
type Driver interface {
	// Watch начинает доставку fix в onFix и ошибок в onErr до вызова stop.
	// Если на хосте источника местоположения нет вообще, возвращает ошибку
	// с кодом CodeUnsupported синхронно, не начиная доставку.
	Watch(opts Options, onFix func(Position), onErr func(*PositionError)) (stop func(), err *PositionError)
}

// UnsupportedDriver - драйвер для хостов без источника местоположения.
// Используется, когда GPS-порт не сконфигурирован.
type UnsupportedDriver struct{}

func (UnsupportedDriver) Watch(_ Options, _ func(Position), _ func(*PositionError)) (func(), *PositionError) {
	return nil, newError(CodeUnsupported, "location capability is not available on this host")
}
