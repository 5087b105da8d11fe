package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/retrovault/backend/infra/cloudrun"
	"github.com/retrovault/backend/infra/docker"
	"github.com/retrovault/backend/infra/firestore"
	"github.com/retrovault/backend/infra/identity"
	"github.com/retrovault/backend/infra/provider"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// identity platform backs the optional ID-token check on /sync
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// database plus the indexes the flat collections are queried with
		db, err := firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		_, err = cloudrun.SetupCloudRun(ctx, prov, ident, db, repo)
		return err
	})
}
