package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/floatdesk/internal/runtimepath"
	"github.com/1broseidon/floatdesk/internal/window"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	// Connect to socket
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	// Set deadline
	conn.SetDeadline(time.Now().Add(c.timeout))

	// Marshal request
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Send request
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Read response
	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Parse response
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with payload and decodes the response data into out
// when out is non-nil.
func (c *Client) call(cmd CommandType, payload, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows returns the open windows in stacking order.
func (c *Client) ListWindows() ([]window.Window, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// OpenViewer opens a viewer and returns its window id, empty for popups.
func (c *Client) OpenViewer(p OpenViewerPayload) (string, error) {
	var data OpenViewerData
	if err := c.call(CommandOpenViewer, p, &data); err != nil {
		return "", err
	}
	return data.ID, nil
}

func (c *Client) CloseWindow(id string) error {
	return c.call(CommandCloseWindow, WindowPayload{ID: id}, nil)
}

func (c *Client) FocusWindow(id string) error {
	return c.call(CommandFocusWindow, WindowPayload{ID: id}, nil)
}

// ListLayouts retrieves available layouts and current selection.
func (c *Client) ListLayouts() (*LayoutsData, error) {
	var data LayoutsData
	if err := c.call(CommandListLayouts, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ApplyLayout arranges windowIDs, or every window when empty.
func (c *Client) ApplyLayout(layoutName string, windowIDs []string) (*ApplyLayoutData, error) {
	var data ApplyLayoutData
	err := c.call(CommandApplyLayout, ApplyLayoutPayload{LayoutName: layoutName, WindowIDs: windowIDs}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// PreviewLayout temporarily applies a layout for preview
func (c *Client) PreviewLayout(layoutName string, durationSeconds int) error {
	return c.call(CommandPreviewLayout, PreviewLayoutPayload{
		LayoutName:      layoutName,
		DurationSeconds: durationSeconds,
	}, nil)
}

// SetDefaultLayout updates default_layout in config (optionally tiles immediately).
func (c *Client) SetDefaultLayout(layoutName string, tileNow bool) error {
	return c.call(CommandSetDefaultLayout, SetDefaultLayoutPayload{
		LayoutName: layoutName,
		TileNow:    tileNow,
	}, nil)
}

// Undo restores the geometry saved before the last layout.
func (c *Client) Undo() (int, error) {
	var data UndoData
	if err := c.call(CommandUndo, nil, &data); err != nil {
		return 0, err
	}
	return data.Restored, nil
}

func (c *Client) ListArrangements() ([]string, error) {
	var data ArrangementsData
	if err := c.call(CommandListArrangements, nil, &data); err != nil {
		return nil, err
	}
	return data.Names, nil
}

func (c *Client) SaveArrangement(name string) (*SaveArrangementData, error) {
	var data SaveArrangementData
	if err := c.call(CommandSaveArrangement, ArrangementPayload{Name: name}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) RestoreArrangement(name string) (*RestoreArrangementData, error) {
	var data RestoreArrangementData
	if err := c.call(CommandRestoreArrangement, ArrangementPayload{Name: name}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) DeleteArrangement(name string) error {
	return c.call(CommandDeleteArrangement, ArrangementPayload{Name: name}, nil)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
