// Package runtime manages containers backed by containerd.
//
// A [Runtime] connects to a containerd daemon and provides image import
// and container creation. OCI archives are imported, tagged, unpacked for
// the target platform, and used to create containers with overlayfs
// snapshots.
//
// Containers come in two flavors. Build containers run an idle task so
// that steps can be dispatched into them with Exec and tar-stream copies;
// their final filesystem state is committed and exported as a new OCI
// archive together with the image's launch configuration (entrypoint,
// environment, exposed ports, working directory). Service containers run
// the image's own entrypoint in the host network namespace, so the port
// the image declares is bound directly on the host; Wait reports the
// process exit code.
//
// Example usage:
//
//	rt, err := runtime.New("/run/containerd/containerd.sock", "slipway")
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	ctr, err := rt.StartBuildContainer(ctx, "python.tar", "build-1", "linux/amd64")
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
//
//	result, err := ctr.Exec(ctx, "/bin/sh", "pip install --user -r requirements.txt", nil, "")
//	if err != nil {
//	    return err
//	}
//
//	err = ctr.Export(ctx, "dist", &runtime.ImageConfig{
//	    Entrypoint:  []string{"uvicorn", "main:app", "--host", "0.0.0.0", "--port", "8000"},
//	    WorkingDir:  "/app",
//	    PathPrepend: []string{"/root/.local/bin"},
//	    ExposedPorts: []string{"8000/tcp"},
//	})
package runtime
