package geolocation

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/adrianmo/go-nmea"
	"github.com/tarm/serial"
)

const defaultRetryDelay = 2 * time.Second

// NMEADriver читает fix с GPS-приемника, подключенного через serial-порт,
// разбирая NMEA GGA-строки.
type NMEADriver struct {
	port       string
	baudRate   int
	retryDelay time.Duration
}

// NewNMEADriver создает драйвер для указанного порта и скорости.
func NewNMEADriver(port string, baudRate int) *NMEADriver {
	return &NMEADriver{
		port:       port,
		baudRate:   baudRate,
		retryDelay: defaultRetryDelay,
	}
}

func (d *NMEADriver) Watch(opts Options, onFix func(Position), onErr func(*PositionError)) (func(), *PositionError) {
	if d.port == "" {
		return nil, newError(CodeUnsupported, "no GPS serial port configured")
	}

	done := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() { close(done) })
	}

	go d.run(opts, onFix, onErr, done)
	return stop, nil
}

// run открывает порт и читает fix до остановки. Ошибки открытия и разбора
// доставляются в onErr и не завершают подписку: после задержки следует
// новая попытка.
func (d *NMEADriver) run(opts Options, onFix func(Position), onErr func(*PositionError), done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		port, err := serial.OpenPort(&serial.Config{Name: d.port, Baud: d.baudRate})
		if err != nil {
			onErr(classifyOpenError(d.port, err))
			if !waitOrDone(done, d.retryDelay) {
				return
			}
			continue
		}

		// Закрытие порта по done снимает блокировку чтения
		closed := make(chan struct{})
		go func() {
			select {
			case <-done:
				port.Close()
			case <-closed:
			}
		}()

		d.readFixes(port, opts, onFix, onErr, done)
		close(closed)
		port.Close()

		if !waitOrDone(done, d.retryDelay) {
			return
		}
	}
}

func (d *NMEADriver) readFixes(port *serial.Port, opts Options, onFix func(Position), onErr func(*PositionError), done <-chan struct{}) {
	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		select {
		case <-done:
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "$GPGGA") && !strings.HasPrefix(line, "$GNGGA") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			onErr(newError(CodePositionUnavailable, "failed to parse NMEA sentence: %v", err))
			continue
		}

		gga, ok := sentence.(nmea.GGA)
		if !ok {
			continue
		}

		// В режиме высокой точности принимаются только строки с реальным
		// GPS fix, без него приемник отдает нули
		if opts.EnableHighAccuracy && gga.FixQuality == nmea.Invalid {
			continue
		}

		onFix(Position{
			Latitude:  gga.Latitude,
			Longitude: gga.Longitude,
			Accuracy:  float64(gga.HDOP), // HDOP как приближение точности в метрах
			Timestamp: time.Now().UTC(),
		})
	}
}

// classifyOpenError различает отказ в доступе к порту и его недоступность
func classifyOpenError(port string, err error) *PositionError {
	if os.IsPermission(err) {
		return newError(CodePermissionDenied, "access to GPS port %s denied: %v", port, err)
	}
	return newError(CodePositionUnavailable, "failed to open GPS port %s: %v", port, err)
}

// waitOrDone ждет delay, возвращает false если пришел сигнал остановки
func waitOrDone(done <-chan struct{}, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-done:
		return false
	case <-timer.C:
		return true
	}
}
