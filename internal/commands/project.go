package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kbukum/logkit/httpclient"
	"github.com/kbukum/logkit/logapi"
	"github.com/kbukum/logkit/version"
)

func (a *App) newProjectCommand() *cobra.Command {
	var virtualHost bool

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
		Long: `Projects are addressed by host: a project named NAME lives at
NAME.<endpoint host>. With --virtual-host the request is sent to the endpoint
itself and the project host travels in the Host header, which is what the
local emulator (logctl serve) expects.`,
	}
	cmd.PersistentFlags().BoolVar(&virtualHost, "virtual-host", false, "send to the endpoint and address the project with the Host header")

	get := &cobra.Command{
		Use:   "get NAME",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProjectGet(cmd.Context(), args[0], virtualHost)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runProjectList(cmd.Context())
		},
	}

	var description string
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProjectCreate(cmd.Context(), args[0], description, virtualHost)
		},
	}
	create.Flags().StringVar(&description, "description", "", "project description")

	cmd.AddCommand(get, list, create)
	return cmd
}

// projectTarget returns the endpoint and headers that address project name.
func (a *App) projectTarget(name string, virtualHost bool) (string, map[string]string, error) {
	u, err := url.Parse(a.cfg.Endpoint)
	if err != nil || u.Host == "" {
		return "", nil, fmt.Errorf("invalid endpoint %q", a.cfg.Endpoint)
	}
	host := name + "." + u.Host
	headers := defaultHeaders()
	if virtualHost {
		headers["Host"] = host
		return a.cfg.Endpoint, headers, nil
	}
	u.Host = host
	return u.String(), headers, nil
}

func defaultHeaders() map[string]string {
	return map[string]string{
		HeaderClientRequestID: uuid.NewString(),
		"User-Agent":          version.UserAgent(),
	}
}

func (a *App) runProjectGet(ctx context.Context, name string, virtualHost bool) error {
	d, err := a.newDispatcher(ctx)
	if err != nil {
		return err
	}
	endpoint, headers, err := a.projectTarget(name, virtualHost)
	if err != nil {
		return err
	}

	resp, err := d.Dispatch(ctx, &httpclient.Request{
		Method:   httpclient.MethodGet,
		Endpoint: endpoint,
		Headers:  headers,
	}, a.cfg.Charset)
	if err != nil {
		return err
	}

	p, err := logapi.DecodeProject(resp.Body)
	if err != nil {
		return err
	}
	if p.Name == "" {
		p.Name = name
	}
	a.printProject(p, resp.RequestID)
	return nil
}

func (a *App) printProject(p *logapi.Project, requestID string) {
	fmt.Fprintf(a.stdout, "name:           %s\n", p.Name)
	fmt.Fprintf(a.stdout, "description:    %s\n", p.Description)
	fmt.Fprintf(a.stdout, "status:         %s\n", p.Status)
	fmt.Fprintf(a.stdout, "region:         %s\n", p.Region)
	fmt.Fprintf(a.stdout, "owner:          %s\n", p.Owner)
	if p.ResourceGroupID != "" {
		fmt.Fprintf(a.stdout, "resource group: %s\n", p.ResourceGroupID)
	}
	if requestID != "" {
		fmt.Fprintf(a.stdout, "request id:     %s\n", requestID)
	}
}

func (a *App) runProjectList(ctx context.Context) error {
	d, err := a.newDispatcher(ctx)
	if err != nil {
		return err
	}

	resp, err := d.Dispatch(ctx, &httpclient.Request{
		Method:   httpclient.MethodGet,
		Endpoint: a.cfg.Endpoint,
		Params:   []httpclient.Param{httpclient.P("offset", "0"), httpclient.P("size", "500")},
		Headers:  defaultHeaders(),
	}, a.cfg.Charset)
	if err != nil {
		return err
	}

	var list logapi.ListProjectsResponse
	if err := logapi.Decode(resp.Body, &list); err != nil {
		return fmt.Errorf("decode projects: %w", err)
	}
	for _, p := range list.Projects {
		fmt.Fprintf(a.stdout, "%s\t%s\t%s\n", p.Name, p.Status, p.Description)
	}
	fmt.Fprintf(a.stdout, "%d of %d projects\n", list.Count, list.Total)
	return nil
}

func (a *App) runProjectCreate(ctx context.Context, name, description string, virtualHost bool) error {
	d, err := a.newDispatcher(ctx)
	if err != nil {
		return err
	}
	endpoint, headers, err := a.projectTarget(name, virtualHost)
	if err != nil {
		return err
	}
	body, err := logapi.Encode(logapi.CreateProjectRequest{Name: name, Description: description})
	if err != nil {
		return err
	}
	headers["Content-Type"] = "application/json"

	resp, err := d.Dispatch(ctx, &httpclient.Request{
		Method:        httpclient.MethodPost,
		Endpoint:      endpoint,
		Headers:       headers,
		Body:          bytes.NewReader(body),
		ContentLength: int64(len(body)),
	}, a.cfg.Charset)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "created project %s (request id %s)\n", name, resp.RequestID)
	return nil
}
