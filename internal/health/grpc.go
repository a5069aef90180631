package health

import (
	"context"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
)

// grpcChecker answers the gRPC health protocol from the same dependency
// checks as the HTTP probes. The empty service name is the overall status.
type grpcChecker struct {
	checker  *Checker
	services map[string]struct{}
}

func (g *grpcChecker) Check(ctx context.Context, req *grpchealth.CheckRequest) (*grpchealth.CheckResponse, error) {
	if _, ok := g.services[req.Service]; !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("unknown service %q", req.Service))
	}

	if !g.checker.Check(ctx).Serving() {
		return &grpchealth.CheckResponse{Status: grpchealth.StatusNotServing}, nil
	}
	return &grpchealth.CheckResponse{Status: grpchealth.StatusServing}, nil
}

// GRPCHandler returns the mount path and handler for grpc.health.v1.Health.
// services lists the names besides "" that clients may ask about.
func (c *Checker) GRPCHandler(services ...string) (string, http.Handler) {
	known := map[string]struct{}{"": {}}
	for _, s := range services {
		known[s] = struct{}{}
	}

	return grpchealth.NewHandler(&grpcChecker{checker: c, services: known})
}
