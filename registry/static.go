package registry

import (
	"fmt"
	"reflect"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dhropo/krpc/logging"
	"github.com/dhropo/krpc/rpcctx"
	"github.com/dhropo/krpc/wire"
)

var (
	ctxPtrType = reflect.TypeOf((*rpcctx.Context)(nil))
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
	anyType    = reflect.TypeOf((*any)(nil)).Elem()
)

// method is the reflected shape of one registered procedure:
//
//	func (svc *T) ProcName(ctx *rpcctx.Context, args ArgsType) (any, error)
//
// ArgsType's exported fields, in declaration order, are the procedure's
// positional arguments. This mirrors mit-pdos/sigmaos's rpc/srv method
// shape (receiver, ctx, args, reply-pointer) generalized to kRPC's
// actual calling convention, where a procedure returns its result value
// directly rather than through an out-parameter.
type method struct {
	fn         reflect.Value
	receiver   reflect.Value
	argType    reflect.Type
	fieldTypes []reflect.Type
}

// StaticRegistry resolves (service, procedure) names against values
// registered in-process via RegisterService, the way a host binds its
// game-object model to the RPC surface at startup. Resolved signatures
// are cached in an LRU so repeated calls don't re-walk the method set
// via reflection every tick — grounded on mit-pdos/sigmaos's
// fsetcd.Dcache LRU usage for a directory-info cache with the same
// shape (resolve once, then serve from the cache). The cache is purged
// only when RegisterService replaces a service's methods.
type StaticRegistry struct {
	mu       sync.Mutex
	services map[string]map[string]*method
	cache    *lru.Cache[string, *ProcedureHandle]
	log      *logging.Logger
}

// NewStaticRegistry returns an empty StaticRegistry whose signature
// cache holds up to cacheSize resolved handles.
func NewStaticRegistry(cacheSize int, log *logging.Logger) *StaticRegistry {
	c, err := lru.New[string, *ProcedureHandle](cacheSize)
	if err != nil {
		// Only invalid (<=0) sizes reach here; callers pass a constant.
		panic(fmt.Sprintf("registry: invalid cache size %d: %v", cacheSize, err))
	}
	return &StaticRegistry{
		services: make(map[string]map[string]*method),
		cache:    c,
		log:      log,
	}
}

// RegisterService exposes svc's exported methods matching the procedure
// shape under service. Registering the same service name again replaces
// its prior methods rather than merging with them.
func (r *StaticRegistry) RegisterService(service string, svc any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	methods := make(map[string]*method)
	typ := reflect.TypeOf(svc)
	val := reflect.ValueOf(svc)
	for i := 0; i < typ.NumMethod(); i++ {
		m := typ.Method(i)
		if m.PkgPath != "" { // unexported
			continue
		}
		mtype := m.Type
		if mtype.NumIn() != 3 || mtype.NumOut() != 2 {
			r.log.DPrintf(logging.RegistrySelector, "%s.%s: bad method shape, skipping", service, m.Name)
			continue
		}
		if mtype.In(1) != ctxPtrType {
			r.log.DPrintf(logging.RegistrySelector, "%s.%s: first argument must be *rpcctx.Context, skipping", service, m.Name)
			continue
		}
		argType := mtype.In(2)
		if argType.Kind() != reflect.Struct {
			r.log.DPrintf(logging.RegistrySelector, "%s.%s: second argument must be a struct, skipping", service, m.Name)
			continue
		}
		if mtype.Out(0) != anyType || mtype.Out(1) != errorType {
			r.log.DPrintf(logging.RegistrySelector, "%s.%s: must return (any, error), skipping", service, m.Name)
			continue
		}
		fieldTypes := make([]reflect.Type, argType.NumField())
		for f := 0; f < argType.NumField(); f++ {
			fieldTypes[f] = argType.Field(f).Type
		}
		methods[m.Name] = &method{
			fn:         m.Func,
			receiver:   val,
			argType:    argType,
			fieldTypes: fieldTypes,
		}
	}
	r.services[service] = methods
	// A re-registration can change method shapes previously cached.
	r.cache.Purge()
}

// GetProcedureSignature resolves service.procedure, consulting the LRU
// before walking the (already-built) method table.
func (r *StaticRegistry) GetProcedureSignature(service, procedure string) (*ProcedureHandle, error) {
	name := service + "." + procedure
	if h, ok := r.cache.Get(name); ok {
		return h, nil
	}

	r.mu.Lock()
	methods, ok := r.services[service]
	if !ok {
		r.mu.Unlock()
		return nil, NewDomainError(fmt.Sprintf("unknown service %q", service))
	}
	if _, ok := methods[procedure]; !ok {
		r.mu.Unlock()
		return nil, NewDomainError(fmt.Sprintf("unknown procedure %q on service %q", procedure, service))
	}
	r.mu.Unlock()

	h := &ProcedureHandle{Service: service, Procedure: procedure}
	r.cache.Add(name, h)
	return h, nil
}

func (r *StaticRegistry) lookupMethod(handle *ProcedureHandle) (*method, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	methods, ok := r.services[handle.Service]
	if !ok {
		return nil, NewDomainError(fmt.Sprintf("unknown service %q", handle.Service))
	}
	m, ok := methods[handle.Procedure]
	if !ok {
		return nil, NewDomainError(fmt.Sprintf("unknown procedure %q on service %q", handle.Procedure, handle.Service))
	}
	return m, nil
}

// GetArguments decodes encodedArgs positionally against handle's
// registered argument struct fields.
func (r *StaticRegistry) GetArguments(handle *ProcedureHandle, encodedArgs [][]byte) ([]any, error) {
	m, err := r.lookupMethod(handle)
	if err != nil {
		return nil, err
	}
	if len(encodedArgs) != len(m.fieldTypes) {
		return nil, NewDomainError(fmt.Sprintf("%s: expected %d arguments, got %d", handle.Name(), len(m.fieldTypes), len(encodedArgs)))
	}
	args := make([]any, len(encodedArgs))
	for i, enc := range encodedArgs {
		v, err := wire.DecodeValue(enc)
		if err != nil {
			return nil, NewDomainError(fmt.Sprintf("%s: argument %d: %v", handle.Name(), i, err))
		}
		if reflect.TypeOf(v) != m.fieldTypes[i] {
			return nil, NewDomainError(fmt.Sprintf("%s: argument %d: expected %s, got %T", handle.Name(), i, m.fieldTypes[i], v))
		}
		args[i] = v
	}
	return args, nil
}

// HandleRequest invokes the resolved procedure by reflection with the
// already-decoded argument tuple.
func (r *StaticRegistry) HandleRequest(handle *ProcedureHandle, ctx *rpcctx.Context, args []any) (any, error) {
	m, err := r.lookupMethod(handle)
	if err != nil {
		return nil, err
	}
	argVal := reflect.New(m.argType).Elem()
	for i, a := range args {
		argVal.Field(i).Set(reflect.ValueOf(a))
	}
	out := m.fn.Call([]reflect.Value{m.receiver, reflect.ValueOf(ctx), argVal})
	if errI := out[1].Interface(); errI != nil {
		return nil, errI.(error)
	}
	return out[0].Interface(), nil
}
