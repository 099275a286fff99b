package component

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rivo/tview"
	"github.com/robgonnella/portx/internal/config"
	"github.com/robgonnella/portx/internal/exception"
	"github.com/robgonnella/portx/internal/ports"
	"github.com/robgonnella/portx/internal/scanner"
	"github.com/robgonnella/portx/internal/ui/style"
)

// ScanFormHandlers callbacks invoked by the scan form buttons
type ScanFormHandlers struct {
	OnScan     func(req scanner.Request)
	OnStop     func()
	OnSaveText func()
	OnSaveJSON func()
	OnError    func(err error)
}

type ScanForm struct {
	root             *tview.Form
	hostInput        *tview.InputField
	portsInput       *tview.InputField
	concurrencyInput *tview.InputField
	timeoutInput     *tview.InputField
}

func NewScanForm(conf config.Config, handlers ScanFormHandlers) *ScanForm {
	hostInput := tview.NewInputField()
	hostInput.SetLabel("Host: ")
	hostInput.SetText(conf.Host)

	portsInput := tview.NewInputField()
	portsInput.SetLabel("Ports: ")
	portsInput.SetText(conf.Scan.Ports)

	concurrencyInput := tview.NewInputField()
	concurrencyInput.SetLabel(
		fmt.Sprintf("Concurrency (%d-%d): ", config.MinConcurrency, config.MaxConcurrency),
	)
	concurrencyInput.SetText(strconv.Itoa(conf.Scan.Concurrency))
	concurrencyInput.SetAcceptanceFunc(tview.InputFieldInteger)
	concurrencyInput.SetFieldWidth(6)

	timeoutInput := tview.NewInputField()
	timeoutInput.SetLabel("Timeout (seconds): ")
	timeoutInput.SetText(strconv.FormatFloat(conf.Scan.Timeout.Seconds(), 'f', -1, 64))
	timeoutInput.SetAcceptanceFunc(tview.InputFieldFloat)
	timeoutInput.SetFieldWidth(6)

	form := tview.NewForm()
	form.AddFormItem(hostInput)
	form.AddFormItem(portsInput)
	form.AddFormItem(concurrencyInput)
	form.AddFormItem(timeoutInput)

	form.SetTitle("scan")
	form.SetBorder(true)
	form.SetBorderColor(style.ColorPurple)
	form.SetFieldBackgroundColor(style.ColorDefault)
	form.SetButtonBackgroundColor(style.ColorLightGreen)
	form.SetLabelColor(style.ColorOrange)
	form.SetButtonTextColor(style.ColorBlack)
	form.SetButtonActivatedStyle(
		style.StyleDefault.Background(style.ColorLightGreen),
	)

	f := &ScanForm{
		root:             form,
		hostInput:        hostInput,
		portsInput:       portsInput,
		concurrencyInput: concurrencyInput,
		timeoutInput:     timeoutInput,
	}

	form.AddButton("Scan", func() {
		req, err := f.Request()

		if err != nil {
			handlers.OnError(err)
			return
		}

		handlers.OnScan(req)
	})

	form.AddButton("Stop", handlers.OnStop)

	form.AddButton("Common Ports", func() {
		f.SetPorts(ports.Join(ports.Common()))
	})

	form.AddButton("All Ports", func() {
		f.SetPorts(ports.All())
	})

	form.AddButton("Save TXT", handlers.OnSaveText)
	form.AddButton("Save JSON", handlers.OnSaveJSON)

	return f
}

func (f *ScanForm) Primitive() tview.Primitive {
	return f.root
}

// SetPorts replaces the port specification input
func (f *ScanForm) SetPorts(spec string) {
	f.portsInput.SetText(spec)
}

// Request builds a scan request from the current form inputs
func (f *ScanForm) Request() (scanner.Request, error) {
	return BuildRequest(
		f.hostInput.GetText(),
		f.portsInput.GetText(),
		f.concurrencyInput.GetText(),
		f.timeoutInput.GetText(),
	)
}

// SetScanning updates the form title to reflect scan state
func (f *ScanForm) SetScanning(scanning bool) {
	if scanning {
		f.root.SetTitle("scan (running)")
		return
	}

	f.root.SetTitle("scan")
}

func (f *ScanForm) ApplyTheme(theme style.Theme) {
	f.root.SetBackgroundColor(theme.Background)
	f.root.SetBorderColor(theme.Accent)
	f.root.SetLabelColor(theme.Label)
	f.root.SetFieldBackgroundColor(theme.Field)
	f.root.SetFieldTextColor(theme.Text)
}

// BuildRequest converts raw form text into a scan request
func BuildRequest(host, portSpec, concurrency, timeoutSeconds string) (scanner.Request, error) {
	host = strings.TrimSpace(host)

	if host == "" {
		return scanner.Request{}, fmt.Errorf("%w: please enter a host", exception.ErrInvalidHost)
	}

	portList, err := ports.Parse(portSpec)

	if err != nil {
		return scanner.Request{}, err
	}

	workers, err := strconv.Atoi(strings.TrimSpace(concurrency))

	if err != nil || workers < config.MinConcurrency || workers > config.MaxConcurrency {
		return scanner.Request{}, fmt.Errorf(
			"%w: concurrency must be between %d and %d",
			exception.ErrInvalidRequest,
			config.MinConcurrency,
			config.MaxConcurrency,
		)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(timeoutSeconds), 64)

	if err != nil || seconds <= 0 {
		return scanner.Request{}, fmt.Errorf(
			"%w: timeout must be a positive number of seconds",
			exception.ErrInvalidRequest,
		)
	}

	return scanner.Request{
		Host:        host,
		Ports:       portList,
		Concurrency: workers,
		Timeout:     time.Duration(seconds * float64(time.Second)),
	}, nil
}
