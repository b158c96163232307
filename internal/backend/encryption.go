package backend

import "github.com/luxfi/lwe"

// EncryptLwe writes an encryption of pt under sk into out, which has length len(sk)+1.
func EncryptLwe[T lwe.Numeric](r Random, out, sk []T, pt T, v lwe.Variance) {
	n := len(sk)
	FillUniform(r, out[:n])
	out[n] = Dot(out[:n], sk) + pt + Noise[T](r, v)
}

// DecryptLwe returns the noisy plaintext b - <a, s>.
func DecryptLwe[T lwe.Numeric](ct, sk []T) T {
	n := len(sk)
	return ct[n] - Dot(ct[:n], sk)
}

// EncryptLweList encrypts pts[i] into the i-th ciphertext of out.
func EncryptLweList[T lwe.Numeric](r Random, out, sk, pts []T, v lwe.Variance) {
	size := len(sk) + 1
	for i, pt := range pts {
		EncryptLwe(r, out[i*size:(i+1)*size], sk, pt, v)
	}
}

// DecryptLweList decrypts every ciphertext of cts into out.
func DecryptLweList[T lwe.Numeric](out, cts, sk []T) {
	size := len(sk) + 1
	for i := range out {
		out[i] = DecryptLwe(cts[i*size:(i+1)*size], sk)
	}
}

// EncryptGlwe writes an encryption of the polynomial pts into out, laid out as
// [A_1 .. A_k, B]. sk holds the k key polynomials back to back.
func EncryptGlwe[T lwe.Numeric](r Random, out, sk, pts []T, v lwe.Variance) {
	n := len(pts)
	k := len(sk) / n

	FillUniform(r, out[:k*n])
	body := out[k*n : (k+1)*n]
	copy(body, pts)
	for i := 0; i < k; i++ {
		MulAddNegacyclic(body, out[i*n:(i+1)*n], sk[i*n:(i+1)*n])
	}
	for i := range body {
		body[i] += Noise[T](r, v)
	}
}

// DecryptGlwe writes B - Σ A_i·S_i into out, which has length N.
func DecryptGlwe[T lwe.Numeric](out, ct, sk []T) {
	n := len(out)
	k := len(sk) / n

	copy(out, ct[k*n:(k+1)*n])
	for i := 0; i < k; i++ {
		MulSubNegacyclic(out, ct[i*n:(i+1)*n], sk[i*n:(i+1)*n])
	}
}

// EncryptGlweList encrypts consecutive runs of N plaintexts into consecutive ciphertexts.
func EncryptGlweList[T lwe.Numeric](r Random, out, sk, pts []T, n int, v lwe.Variance) {
	size := len(sk) + n
	for i := 0; i*n < len(pts); i++ {
		EncryptGlwe(r, out[i*size:(i+1)*size], sk, pts[i*n:(i+1)*n], v)
	}
}

// DecryptGlweList decrypts consecutive ciphertexts into consecutive runs of N plaintexts.
func DecryptGlweList[T lwe.Numeric](out, cts, sk []T, n int) {
	size := len(sk) + n
	for i := 0; i*n < len(out); i++ {
		DecryptGlwe(out[i*n:(i+1)*n], cts[i*size:(i+1)*size], sk)
	}
}
